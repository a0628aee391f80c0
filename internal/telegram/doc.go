// Package telegram provides a minimal Telegram Bot API client for posting
// achievement messages to a chat.
//
// Authentication requires a bot token (from @BotFather) and chat ID.
package telegram
