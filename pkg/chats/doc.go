// Package chats provides the data model for conversations sent to the
// generation provider.
//
// It is organized into sub-packages:
//   - [github.com/conjure-cli/conjure/pkg/chats/role] — conversation roles (system, user, assistant, tool)
//   - [github.com/conjure-cli/conjure/pkg/chats/content] — content parts (text, image, tool call/result)
//   - [github.com/conjure-cli/conjure/pkg/chats/message] — messages composed of a role and content parts
//   - [github.com/conjure-cli/conjure/pkg/chats/chat] — append-only conversation container
//
// No provider or API code is included — chats is a foundation layer
// that adapters build on.
package chats
