// Package app wires stores and services from configuration. Both binaries
// build on it.
package app

import (
	"database/sql"
	"fmt"

	"github.com/MrJamesThe3rd/dealdesk/internal/analytics"
	"github.com/MrJamesThe3rd/dealdesk/internal/auth"
	authStore "github.com/MrJamesThe3rd/dealdesk/internal/auth/store"
	"github.com/MrJamesThe3rd/dealdesk/internal/cdn"
	"github.com/MrJamesThe3rd/dealdesk/internal/config"
	"github.com/MrJamesThe3rd/dealdesk/internal/contact"
	contactStore "github.com/MrJamesThe3rd/dealdesk/internal/contact/store"
	"github.com/MrJamesThe3rd/dealdesk/internal/database"
	"github.com/MrJamesThe3rd/dealdesk/internal/deal"
	dealStore "github.com/MrJamesThe3rd/dealdesk/internal/deal/store"
	"github.com/MrJamesThe3rd/dealdesk/internal/docstore"
	"github.com/MrJamesThe3rd/dealdesk/internal/document"
	documentStore "github.com/MrJamesThe3rd/dealdesk/internal/document/store"
	"github.com/MrJamesThe3rd/dealdesk/internal/export"
	"github.com/MrJamesThe3rd/dealdesk/internal/importer"
	"github.com/MrJamesThe3rd/dealdesk/internal/property"
	propertyStore "github.com/MrJamesThe3rd/dealdesk/internal/property/store"
	"github.com/MrJamesThe3rd/dealdesk/internal/task"
	taskStore "github.com/MrJamesThe3rd/dealdesk/internal/task/store"
)

type Services struct {
	Auth       *auth.Service
	Tokens     *auth.JWTManager
	Contacts   *contact.Service
	Deals      *deal.Service
	Properties *property.Service
	Tasks      *task.Service
	Documents  *document.Service
	Analytics  *analytics.Service
	Importer   *importer.Service
	Export     *export.Service
}

// Open connects to Postgres and applies pending migrations.
func Open(cfg *config.Config) (*sql.DB, error) {
	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	return db, nil
}

func NewServices(cfg *config.Config, db *sql.DB) *Services {
	docs := docstore.New(db)

	uploader := cdn.NewClient(cdn.Config{
		UploadURL:    cfg.CDN.UploadURL,
		UploadPreset: cfg.CDN.UploadPreset,
		MaxBytes:     cfg.CDN.MaxBytes,
		MaxRetries:   cfg.CDN.MaxRetries,
	})

	tokens := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)

	var (
		contactService  = contact.NewService(contactStore.New(docs))
		dealService     = deal.NewService(dealStore.New(docs), contactService)
		documentService = document.NewService(documentStore.New(docs), uploader)
	)

	return &Services{
		Auth:       auth.NewService(authStore.New(db), tokens, cfg.Auth.AdminEmails),
		Tokens:     tokens,
		Contacts:   contactService,
		Deals:      dealService,
		Properties: property.NewService(propertyStore.New(docs), uploader),
		Tasks:      task.NewService(taskStore.New(docs)),
		Documents:  documentService,
		Analytics:  analytics.NewService(dealService),
		Importer:   importer.NewService(contactService),
		Export:     export.NewService(dealService, documentService),
	}
}
