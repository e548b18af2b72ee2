// Package ledger records build runs and the derived assets each run
// produced in a SQLite database under the state directory.
//
// The ledger is informational. Whether an asset needs regenerating is still
// decided by the presence of its content-addressed file; the ledger answers
// "what happened when" for the CLI.
package ledger
