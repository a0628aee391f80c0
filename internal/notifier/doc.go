// Package notifier delivers achievement messages.
//
// The primary channel is the league chat, where a message is posted once per
// season: each message carries year%5 trailing non-breaking spaces and is
// skipped when that exact text is already on the chat page. Twitter and
// Telegram notifiers post the same text elsewhere, and DryRunNotifier prints
// it. LockingNotifier wraps any of them with a Redis lock so concurrent
// invocations handling the same game cannot post the same message twice.
package notifier
