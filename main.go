package main

import (
	"fb-dialect/cmd"

	_ "github.com/nakagami/firebirdsql"
)

func main() {
	cmd.Execute()
}
