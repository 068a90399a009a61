// Command todoapp manages users and their todo lists from the terminal.
package main

import (
	"fmt"
	"os"

	"github.com/nhle/todolist/internal/theme"
)

func main() {
	err := rootCmd.Execute()
	if cerr := closeStore(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, theme.ErrorStyle.Render("error: "+err.Error()))
		os.Exit(1)
	}
}
