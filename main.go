// The main package for the pagewatch executable.
package main

import "pagewatch/cmd"

func main() {
	cmd.Execute()
}
