// Package todo owns the task list: creation, completion toggling,
// removal, filtered views and write-through persistence.
//
// The task data is a JSON array stored in a single blob (see the storage
// package):
//
//	[
//	  {
//	    "id": 1,
//	    "description": "Pagar a conta de luz",
//	    "priority": "Alta",
//	    "category": "Casa",
//	    "completed": true,
//	    "created_at": "03/02/2026 09:15",
//	    "completed_at": "03/02/2026 18:40"
//	  }
//	]
//
// # Priorities
//
//   - "Alta": high, sorts first
//   - "Média": medium, the default
//   - "Baixa": low
//
// Labels read from disk that are not one of these are kept verbatim and
// sort after "Baixa".
//
// # Loading
//
// Loading never fails. A missing blob, unreadable storage, invalid JSON
// or content that does not satisfy tasks.schema.json all produce an empty
// list. Use Validate to find out why a blob was rejected.
//
// # File Format
//
// When writing, the package uses:
//   - 2-space indentation
//   - Trailing newline
//   - Timestamps as "DD/MM/YYYY HH:MM" in local time
//   - "completed_at": null for pending tasks
package todo
