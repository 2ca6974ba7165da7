// Command pixelhq runs the pixel agents office: a simulated org chart of
// coding agents that delegate skills, level up and unlock achievements.
package main

func main() {
	Execute()
}
