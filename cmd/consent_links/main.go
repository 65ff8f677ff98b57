// Command consent_links prints fresh consent links for every participant of a
// session, for when the original emails were lost.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"gabber/annotator/internal/common"
	"gabber/annotator/internal/config"
	"gabber/annotator/internal/constants"
	"gabber/annotator/internal/db"
	"gabber/annotator/internal/db/repositories"
	gormModels "gabber/annotator/internal/models/gorm"
	"gabber/annotator/internal/services"
)

func main() {
	sessionID := flag.String("session", "", "interview session id")
	flag.Parse()
	if *sessionID == "" {
		log.Fatal("usage: consent_links -session <id>")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	orm, err := db.InitPostgresORM(cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("open db: %v", err)
	}

	signer := common.NewTokenSigner(cfg.SecretKey, map[constants.TokenPurpose]string{
		constants.TokenPurposeConsent: cfg.ConsentSalt,
	})
	consents := services.NewConsentService(orm, signer, nil, nil, cfg)

	ctx := context.Background()
	rows, err := repositories.NewConsentRepository(orm).ListBySession(ctx, *sessionID)
	if err != nil {
		log.Fatalf("list consents: %v", err)
	}
	users, err := repositories.NewUserRepositoryGORM(orm).GetManyByIDs(ctx, consentUserIDs(rows))
	if err != nil {
		log.Fatalf("load participants: %v", err)
	}

	for _, c := range rows {
		token, err := consents.GenerateToken(c.UserID, c.ProjectID, c.SessionID, c.ID)
		if err != nil {
			log.Fatalf("sign token: %v", err)
		}
		name := ""
		if u, ok := users[c.UserID]; ok {
			name = fmt.Sprintf("%s <%s>", u.Fullname, u.Email)
		}
		fmt.Printf("%s\t%s\t%s/consent/%s\n", name, c.Type, cfg.WebClientURL, token)
	}
}

func consentUserIDs(rows []gormModels.Consent) []uint {
	ids := make([]uint, 0, len(rows))
	for _, c := range rows {
		ids = append(ids, c.UserID)
	}
	return ids
}
