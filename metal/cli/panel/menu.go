package panel

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/inkpress/pkg/cli"
	"github.com/inkpress/pkg/portal"
)

const menuWidth = 44

type Menu struct {
	Choice    *int
	Reader    *bufio.Reader
	Validator *portal.Validator
}

// LoginInput is validated like the login form so the CLI cannot store an
// account that could never sign in.
type LoginInput struct {
	Login string `validate:"required,alphanum,min=3,max=80"`
}

func MakeMenu() Menu {
	menu := Menu{
		Reader:    bufio.NewReader(os.Stdin),
		Validator: portal.GetDefaultValidator(),
	}

	menu.Print()

	return menu
}

func (p *Menu) PrintLine() {
	_, _ = p.Reader.ReadString('\n')
}

func (p *Menu) GetChoice() int {
	if p.Choice == nil {
		return 0
	}

	return *p.Choice
}

func (p *Menu) CaptureInput() error {
	cli.Blue("Select an option: ")
	input, err := p.Reader.ReadString('\n')

	if err != nil {
		return fmt.Errorf("%s error reading input: %v %s", cli.RedColour, err, cli.Reset)
	}

	input = strings.TrimSpace(input)
	choice, err := strconv.Atoi(input)

	if err != nil {
		return fmt.Errorf("%s Please enter a valid number. %s", cli.RedColour, cli.Reset)
	}

	p.Choice = &choice

	return nil
}

func (p *Menu) Print() {
	border := strings.Repeat("═", menuWidth)
	title := "inkpress admin"

	fmt.Fprintln(cli.Output)
	fmt.Fprintf(cli.Output, "%s╔%s╗\n", cli.CyanColour, border)
	fmt.Fprintf(cli.Output, "║%s║\n", p.CenterText(title, menuWidth))
	fmt.Fprintf(cli.Output, "╠%s╣\n", border)

	p.PrintOption("1) Initialise the schema", menuWidth)
	p.PrintOption("2) Seed the admin account", menuWidth)
	p.PrintOption("3) Reset the database", menuWidth)
	p.PrintOption("4) List accounts", menuWidth)
	p.PrintOption("5) Reset a password", menuWidth)
	p.PrintOption(" ", menuWidth)
	p.PrintOption("0) Exit", menuWidth)

	fmt.Fprintf(cli.Output, "╚%s╝%s\n", border, cli.Reset)
}

// PrintOption prints a padded menu row.
func (p *Menu) PrintOption(text string, width int) {
	fmt.Fprintf(cli.Output, "║ %-*s║\n", width-1, text)
}

// CenterText centres s in width, truncating it when it does not fit.
func (p *Menu) CenterText(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}

	padding := (width - len(s)) / 2

	return strings.Repeat(" ", padding) + s + strings.Repeat(" ", width-len(s)-padding)
}

func (p *Menu) CaptureLogin() (string, error) {
	login, err := cli.ReadLine(p.Reader, "Enter the account login: ")
	if err != nil {
		return "", err
	}

	if _, err := p.Validator.Rejects(LoginInput{Login: login}); err != nil {
		return "", fmt.Errorf("invalid login [%s]: %s", login, p.Validator.GetErrorsAsJson())
	}

	return login, nil
}

func (p *Menu) CapturePassword() (string, error) {
	first, err := cli.ReadSecret(p.Reader, "New password: ")
	if err != nil {
		return "", err
	}

	second, err := cli.ReadSecret(p.Reader, "Repeat the password: ")
	if err != nil {
		return "", err
	}

	if first != second {
		return "", fmt.Errorf("the passwords do not match")
	}

	return first, nil
}
