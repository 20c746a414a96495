// chessdb stores chess games in SQLite and queries them by position, opening
// and game order.
package main

import (
	"os"
)

const programVersion = "0.1.0"

func main() {
	if err := newRootCmd(&app{}).Execute(); err != nil {
		os.Exit(1)
	}
}
