// Package gamedb records discovered games as DynamoDB items.
//
// Each game is written once, conditioned on the GameID key being absent.
// When the item already exists it is read back and compared with the game
// being written; a mismatch means two different games share an id and is
// reported as an error.
package gamedb

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/thromer/pc-boxscores/internal/game"
)

// DynamoDBAPI is the subset of the DynamoDB client used by Store.
type DynamoDBAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

// ErrMismatch is returned when a stored game differs from the one being written.
var ErrMismatch = errors.New("gamedb: stored game differs")

// Store writes game items to a single table keyed by GameID (S)
type Store struct {
	ddb   DynamoDBAPI
	table string
}

// New creates a store for the given table
func New(ddb DynamoDBAPI, table string) *Store {
	return &Store{ddb: ddb, table: table}
}

// Create writes g if no item with its id exists. The bool reports whether
// the item was newly written.
func (s *Store) Create(ctx context.Context, g *game.Game) (bool, error) {
	_, err := s.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.table),
		Item:                toItem(g),
		ConditionExpression: aws.String("attribute_not_exists(GameID)"),
	})
	created := true
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if !errors.As(err, &ccf) {
			return false, fmt.Errorf("put game %s: %w", g.ID, err)
		}
		created = false
	}

	stored, err := s.Get(ctx, g.ID)
	if err != nil {
		return created, err
	}
	if !stored.SameResult(g) {
		verb := "tried to write"
		if created {
			verb = "wrote"
		}
		return created, fmt.Errorf("game %s: %s %+v but table contains %+v: %w", g.ID, verb, *g, *stored, ErrMismatch)
	}
	return created, nil
}

// Get reads the game with the given id
func (s *Store) Get(ctx context.Context, id string) (*game.Game, error) {
	out, err := s.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"GameID": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get game %s: %w", id, err)
	}
	if len(out.Item) == 0 {
		return nil, fmt.Errorf("game not found: %s", id)
	}
	return fromItem(out.Item)
}

func toItem(g *game.Game) map[string]types.AttributeValue {
	item := map[string]types.AttributeValue{
		"GameID": &types.AttributeValueMemberS{Value: g.ID}, // PK
		"Year":   &types.AttributeValueMemberN{Value: strconv.Itoa(g.Year)},
		"Day":    &types.AttributeValueMemberN{Value: strconv.Itoa(g.Day)},
		"Away":   &types.AttributeValueMemberS{Value: g.Away},
		"Home":   &types.AttributeValueMemberS{Value: g.Home},
		"AwayR":  &types.AttributeValueMemberN{Value: strconv.Itoa(g.AwayRuns)},
		"HomeR":  &types.AttributeValueMemberN{Value: strconv.Itoa(g.HomeRuns)},
	}
	if !g.DiscoveredAt.IsZero() {
		item["DiscoveredAt"] = &types.AttributeValueMemberN{Value: strconv.FormatInt(g.DiscoveredAt.Unix(), 10)}
	}
	return item
}

func fromItem(item map[string]types.AttributeValue) (*game.Game, error) {
	g := &game.Game{}
	var err error
	if g.ID, err = stringAttr(item, "GameID"); err != nil {
		return nil, err
	}
	if g.Away, err = stringAttr(item, "Away"); err != nil {
		return nil, err
	}
	if g.Home, err = stringAttr(item, "Home"); err != nil {
		return nil, err
	}
	for name, dst := range map[string]*int{
		"Year":  &g.Year,
		"Day":   &g.Day,
		"AwayR": &g.AwayRuns,
		"HomeR": &g.HomeRuns,
	} {
		if *dst, err = numberAttr(item, name); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func stringAttr(item map[string]types.AttributeValue, name string) (string, error) {
	v, ok := item[name].(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("attribute %s: missing or not a string", name)
	}
	return v.Value, nil
}

func numberAttr(item map[string]types.AttributeValue, name string) (int, error) {
	v, ok := item[name].(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("attribute %s: missing or not a number", name)
	}
	n, err := strconv.Atoi(v.Value)
	if err != nil {
		return 0, fmt.Errorf("attribute %s: %w", name, err)
	}
	return n, nil
}
