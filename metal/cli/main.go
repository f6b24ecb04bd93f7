package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/inkpress/database"
	"github.com/inkpress/metal/cli/accounts"
	"github.com/inkpress/metal/cli/panel"
	"github.com/inkpress/metal/env"
	"github.com/inkpress/metal/kernel"
	"github.com/inkpress/pkg/cli"
	"github.com/inkpress/pkg/portal"
)

var environment *env.Environment
var dbConn *database.Connection

func init() {
	secrets, err := kernel.Ignite("./.env", portal.GetDefaultValidator())
	if err != nil {
		panic(err)
	}

	environment = secrets
	dbConn = kernel.MakeDbConnection(environment)
}

func main() {
	command := flag.String("command", "", "run one command and exit: init, seed, reset-db, list-accounts, reset-password")
	login := flag.String("login", "", "the account used by reset-password")
	flag.Parse()

	defer dbConn.Close()

	handler, err := accounts.NewHandler(dbConn, environment)
	if err != nil {
		cli.Errorln(err.Error())
		os.Exit(1)
	}

	if *command != "" {
		if err := run(handler, *command, *login); err != nil {
			cli.Errorln(err.Error())
			os.Exit(1)
		}

		return
	}

	interactive(handler)
}

func run(handler *accounts.Handler, command, login string) error {
	switch command {
	case "init":
		return handler.InitSchema()
	case "seed":
		return handler.SeedAdmin()
	case "reset-db":
		return handler.ResetDB()
	case "list-accounts":
		return handler.ListAccounts()
	case "reset-password":
		if login == "" {
			return fmt.Errorf("reset-password needs --login")
		}

		menu := panel.Menu{Reader: bufio.NewReader(os.Stdin), Validator: portal.GetDefaultValidator()}
		password, err := menu.CapturePassword()
		if err != nil {
			return err
		}

		return handler.ResetPassword(login, password)
	default:
		return fmt.Errorf("unknown command [%s]", command)
	}
}

func interactive(handler *accounts.Handler) {
	cli.ClearScreen()

	menu := panel.MakeMenu()

	for {
		if err := menu.CaptureInput(); err != nil {
			cli.Errorln(err.Error())
			continue
		}

		var err error

		switch menu.GetChoice() {
		case 1:
			err = handler.InitSchema()
		case 2:
			err = handler.SeedAdmin()
		case 3:
			err = handler.ResetDB()
		case 4:
			err = handler.ListAccounts()
		case 5:
			err = resetPassword(menu, handler)
		case 0:
			cli.Successln("Goodbye!")
			return
		default:
			cli.Errorln("Unknown option. Try again.")
		}

		if err != nil {
			cli.Errorln(err.Error())
		}

		cli.Blueln("Press Enter to continue...")

		menu.PrintLine()
		menu.Print()
	}
}

func resetPassword(menu panel.Menu, handler *accounts.Handler) error {
	login, err := menu.CaptureLogin()
	if err != nil {
		return err
	}

	password, err := menu.CapturePassword()
	if err != nil {
		return err
	}

	return handler.ResetPassword(login, password)
}
