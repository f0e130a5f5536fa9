// Command adminctl is the admin panel of the Intlakaa site for the terminal.
package main

func main() {
	Execute()
}
