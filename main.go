package main

import "expensetracker/cmd"

func main() {
	cmd.Execute()
}
