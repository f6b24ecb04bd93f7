package main

import (
	"flag"
	"time"

	"github.com/inkpress/database"
	"github.com/inkpress/database/seeder/seeds"
	"github.com/inkpress/metal/env"
	"github.com/inkpress/metal/kernel"
	"github.com/inkpress/pkg/cli"
	"github.com/inkpress/pkg/portal"
)

var environment *env.Environment

func init() {
	secrets, err := kernel.Ignite("./.env", portal.GetDefaultValidator())
	if err != nil {
		panic(err)
	}

	environment = secrets
}

func main() {
	subsite := flag.String("subsite", "", "subsite receiving the demo content (defaults to the first configured one)")
	flag.Parse()

	if *subsite == "" {
		*subsite = environment.Site.Default()
	}

	cli.ClearScreen()

	dbConnection := kernel.MakeDbConnection(environment)
	logs := kernel.MakeLogs(environment)

	defer logs.Close()
	defer dbConnection.Close()

	if err := dbConnection.Migrate(); err != nil {
		panic(err)
	}

	// [1] --- Create the Seeder Runner.
	seeder := seeds.MakeSeeder(dbConnection, environment)

	// [2] --- Truncate the db.
	if err := seeder.TruncateDB(); err != nil {
		panic(err)
	} else {
		cli.Successln("db Truncated successfully ...")
		time.Sleep(2 * time.Second)
	}

	// [3] --- The admin and the demo authors come first; posts name them.
	if _, _, err := seeder.SeedAdmin(); err != nil {
		panic(err)
	}

	authors := seeder.SeedAuthors()

	categoriesChan := make(chan []database.Category)
	tagsChan := make(chan []database.Tag)

	go func() {
		defer close(categoriesChan)

		cli.Warningln("Seeding categories ...")
		categoriesChan <- seeder.SeedCategories(*subsite)
	}()

	go func() {
		defer close(tagsChan)

		cli.Magentaln("Seeding tags ...")
		tagsChan <- seeder.SeedTags(*subsite)
	}()

	// [4] --- Posts link to both, so wait for the two channels.
	categories := <-categoriesChan
	tags := <-tagsChan

	cli.Blueln("Seeding posts ...")
	seeder.SeedPosts(*subsite, authors, tags, categories)

	cli.Magentaln("db seeded as expected ....")
}
