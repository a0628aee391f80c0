package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/thromer/pc-boxscores/internal/crypto"
)

var (
	flagSealUsername string
	flagSealPassword string
	flagSealOutput   string
	flagSealUpload   bool
)

func newCredentialsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credentials",
		Short: "Manage the encrypted site login",
	}

	seal := &cobra.Command{
		Use:   "seal",
		Short: "Encrypt a site login with PC_CREDENTIALS_KEY",
		Long: `Encrypt a username and password into the JSON blob read by the chat
notifier. The blob is written to --output, standard output, or with
--upload to the configured login bucket.`,
		RunE: runSeal,
	}
	seal.Flags().StringVar(&flagSealUsername, "username", "", "Site username (or env: PC_USERNAME)")
	seal.Flags().StringVar(&flagSealPassword, "password", "", "Site password (or env: PC_PASSWORD)")
	seal.Flags().StringVar(&flagSealOutput, "output", "", "Write the blob to this file")
	seal.Flags().BoolVar(&flagSealUpload, "upload", false, "Upload the blob to PC_LOGIN_BUCKET/PC_LOGIN_OBJECT")

	cmd.AddCommand(seal)
	return cmd
}

func runSeal(cmd *cobra.Command, args []string) error {
	creds := crypto.Credentials{Username: cfg.Login.Username, Password: cfg.Login.Password}
	if flagSealUsername != "" {
		creds.Username = flagSealUsername
	}
	if flagSealPassword != "" {
		creds.Password = flagSealPassword
	}
	if creds.Username == "" || creds.Password == "" {
		return fmt.Errorf("username and password are required")
	}
	if cfg.Login.CredentialsKey == "" {
		return fmt.Errorf("PC_CREDENTIALS_KEY is required")
	}

	blob, err := crypto.NewSealer(cfg.Login.CredentialsKey).SealCredentials(creds)
	if err != nil {
		return err
	}

	switch {
	case flagSealUpload:
		if cfg.Login.Bucket == "" {
			return fmt.Errorf("PC_LOGIN_BUCKET is required for --upload")
		}
		app, err := NewApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		_, err = app.S3().PutObject(cmd.Context(), &s3.PutObjectInput{
			Bucket:      aws.String(cfg.Login.Bucket),
			Key:         aws.String(cfg.Login.Object),
			Body:        bytes.NewReader(blob),
			ContentType: aws.String("application/json"),
		})
		if err != nil {
			return fmt.Errorf("uploading credentials: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "uploaded s3://%s/%s\n", cfg.Login.Bucket, cfg.Login.Object)
	case flagSealOutput != "":
		if err := os.WriteFile(flagSealOutput, blob, 0600); err != nil {
			return fmt.Errorf("writing credentials: %w", err)
		}
	default:
		fmt.Fprintln(cmd.OutOrStdout(), string(blob))
	}
	return nil
}
