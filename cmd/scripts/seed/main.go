package main

import (
	"context"
	"strconv"

	"github.com/jessevdk/go-flags"
	"github.com/robinjoseph08/golib/logger"

	"github.com/circdesk/circdesk/pkg/catalog"
	"github.com/circdesk/circdesk/pkg/config"
	"github.com/circdesk/circdesk/pkg/database"
	"github.com/circdesk/circdesk/pkg/inventory"
	"github.com/circdesk/circdesk/pkg/migrations"
	"github.com/circdesk/circdesk/pkg/models"
	"github.com/circdesk/circdesk/pkg/people"
)

// Seeds a fresh database with sample people, titles, and copies so the API
// can be exercised locally without clicking through setup by hand.
func main() {
	ctx := context.Background()
	log := logger.New()

	var opts struct {
		AdminPassword string `short:"p" long:"admin-password" default:"password1234" description:"Password for the seeded admin"`
		Copies        int    `short:"c" long:"copies" default:"2" description:"Copies to register per title"`
	}

	if _, err := flags.Parse(&opts); err != nil {
		log.Err(err).Fatal("flags parse error")
	}

	cfg, err := config.New()
	if err != nil {
		log.Err(err).Fatal("config error")
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Err(err).Fatal("database error")
	}

	if _, err := migrations.BringUpToDate(ctx, db); err != nil {
		log.Err(err).Fatal("migrations error")
	}

	peopleService := people.NewService(db)
	catalogService := catalog.NewService(db)
	inventoryService := inventory.NewService(db)

	admin, err := peopleService.CreatePerson(ctx, people.CreatePersonOptions{
		Name:        "Desk Admin",
		Password:    opts.AdminPassword,
		ContactInfo: "admin@example.com",
		Role:        models.RoleAdmin,
	})
	if err != nil {
		log.Err(err).Fatal("admin seed error")
	}
	log.Info("seeded admin", logger.Data{"id": admin.ID})

	memberNames := []string{"Aiko Tanaka", "Marcus Webb", "Priya Nair"}
	for _, name := range memberNames {
		member, err := peopleService.CreatePerson(ctx, people.CreatePersonOptions{
			Name:        name,
			Password:    "password1234",
			ContactInfo: name + "@example.com",
			Role:        models.RoleMember,
		})
		if err != nil {
			log.Err(err).Fatal("member seed error")
		}
		log.Info("seeded member", logger.Data{"id": member.ID, "name": member.Name})
	}

	authors := map[string]int{}
	for _, name := range []string{"Ursula K. Le Guin", "Ted Chiang", "Octavia E. Butler"} {
		author, err := catalogService.CreateAuthor(ctx, name)
		if err != nil {
			log.Err(err).Fatal("author seed error")
		}
		authors[name] = author.ID
	}

	titles := []catalog.CreateTitleOptions{
		{ISBN: "9780441007318", Title: "The Left Hand of Darkness", Genre: "Science Fiction", Publisher: "Ace", AuthorIDs: []int{authors["Ursula K. Le Guin"]}},
		{ISBN: "9781101972120", Title: "Stories of Your Life and Others", Genre: "Science Fiction", Publisher: "Vintage", AuthorIDs: []int{authors["Ted Chiang"]}},
		{ISBN: "9780807083697", Title: "Kindred", Genre: "Science Fiction", Publisher: "Beacon Press", AuthorIDs: []int{authors["Octavia E. Butler"]}},
	}

	barcode := 1000
	for _, t := range titles {
		title, err := catalogService.CreateTitle(ctx, t)
		if err != nil {
			log.Err(err).Fatal("title seed error")
		}
		log.Info("seeded title", logger.Data{"id": title.ID, "isbn": title.ISBN})

		for i := 0; i < opts.Copies; i++ {
			barcode++
			item, err := inventoryService.CreateItem(ctx, inventory.CreateItemOptions{
				Barcode:     "BC-" + strconv.Itoa(barcode),
				BookTitleID: title.ID,
			})
			if err != nil {
				log.Err(err).Fatal("item seed error")
			}
			log.Info("seeded item", logger.Data{"id": item.ID, "barcode": item.Barcode})
		}
	}

	if err := db.Close(); err != nil {
		log.Err(err).Error("database close error")
	}
}
