package creds

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// TerminalPrompter implements Prompter on the controlling terminal, reading
// passwords with echo disabled.
type TerminalPrompter struct{}

func (TerminalPrompter) MasterPassword(confirm bool) (string, bool) {
	pw, err := readPassword("Master password: ")
	if err != nil || pw == "" {
		return "", false
	}
	if confirm {
		again, err := readPassword("Confirm master password: ")
		if err != nil {
			return "", false
		}
		if pw != again {
			fmt.Fprintln(os.Stderr, "passwords do not match")
			return "", false
		}
	}
	return pw, true
}

func (TerminalPrompter) ServiceCredential(service, usernameHint string) (Credential, bool, bool) {
	fmt.Fprintf(os.Stderr, "Credentials needed for %s\n", service)

	prompt := "Username: "
	if usernameHint != "" {
		prompt = fmt.Sprintf("Username [%s]: ", usernameHint)
	}
	username, err := readLine(prompt)
	if err != nil {
		return Credential{}, false, false
	}
	if username == "" {
		username = usernameHint
	}

	password, err := readPassword("Password: ")
	if err != nil || password == "" {
		return Credential{}, false, false
	}

	saveAnswer, err := readLine("Save for next time? [y/N]: ")
	if err != nil {
		return Credential{}, false, false
	}
	save := strings.EqualFold(saveAnswer, "y") || strings.EqualFold(saveAnswer, "yes")

	return Credential{Username: username, Password: password}, save, true
}

func readLine(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func readPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", err
	}
	return string(b), nil
}
