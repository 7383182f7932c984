/*
Package operation implements the bulk file-operation engine behind both panes.

	+-----------+     +-------------+     +-----------+
	|   Pane    | --> |   Engine    | --> |  Staging  |
	| selection |     | (Run/State) |     |   Store   |
	+-----------+     +------+------+     +-----+-----+
	                         |                  |
	                  +------+------+     +-----+-----+
	                  |  Conflict   |     | TreeCopy  |
	                  |   Policy    |     | (bounded) |
	                  +-------------+     +-----------+

🎯 Purpose:
- Snapshots the selection of the source pane
- Asks the host for an action, a thread count and a filter pattern
- Copies through the staging store, pastes, moves, trashes and renames
- Reports progress as files done out of files involved

🔄 Flow:
 1. Idle → Selecting: the selection is copied into an ordered list
 2. AwaitingAction: the host picks copy, move, delete, paste or rename
 3. AwaitingParameters: invalid input returns to AwaitingAction with a warning
 4. Executing: ProcessAction runs the operation and refreshes the panes
 5. Idle

⚡ Failure rules:
- Paste stops at the first conflict or copy failure and keeps the staged set
- Move stops at a conflict, other failures only skip their item
- Delete warns per item and always clears the selection
- Nothing is retried

🔍 Filters:
A filter is a regular expression matched anywhere in the file name, or a
doublestar glob when prefixed with "glob:". A pattern that does not compile
matches nothing.

🔍 Example:

	eng, err := operation.New(operation.Options{
		Host:    host,
		Staging: store,
		Copier:  copier,
		Trash:   bin,
		Counter: cat,
	})
	err = eng.Run(ctx, left, right)
*/
package operation
