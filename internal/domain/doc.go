// Package domain holds the types every other nyota package shares: sentiment
// readings and state, moods, chat messages, providers, and the ports
// (Analyzer, ConversationStore, ChatProvider) the core talks through.
//
// Nothing here does I/O. Files are grouped by concept.
package domain
