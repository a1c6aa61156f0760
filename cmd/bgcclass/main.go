// Command bgcclass classifies GenBank records from the command line with the same
// artifacts the service loads.
package main

func main() {
	Execute()
}
