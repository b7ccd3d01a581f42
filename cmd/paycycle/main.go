// Command paycycle manages recurring payments from the terminal.
package main

func main() {
	Execute()
}
