// Command salesctl manages the sales assistant from a terminal.
package main

func main() {
	Execute()
}
