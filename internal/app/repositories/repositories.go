package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository             *UserRepository
	TokenRepository            *TokenRepository
	SupplierRepository         *SupplierRepository
	VisitorRepository          *VisitorRepository
	MatchingRepository         *MatchingRepository
	MatchingResponseRepository *MatchingResponseRepository
	ChatRepository             *ChatRepository
	ResearchProductRepository  *ResearchProductRepository
	EducationRepository        *EducationRepository
	ProductRepository          *ProductRepository
	NotificationRepository     *NotificationRepository
	PopupRepository            *PopupRepository
	SearchRepository           *SearchRepository
	SupportTicketRepository    *SupportTicketRepository
	LicenseRepository          *LicenseRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:             NewUserRepository(db),
		TokenRepository:            NewTokenRepository(db),
		SupplierRepository:         NewSupplierRepository(db),
		VisitorRepository:          NewVisitorRepository(db),
		MatchingRepository:         NewMatchingRepository(db),
		MatchingResponseRepository: NewMatchingResponseRepository(db),
		ChatRepository:             NewChatRepository(db),
		ResearchProductRepository:  NewResearchProductRepository(db),
		EducationRepository:        NewEducationRepository(db),
		ProductRepository:          NewProductRepository(db),
		NotificationRepository:     NewNotificationRepository(db),
		PopupRepository:            NewPopupRepository(db),
		SearchRepository:           NewSearchRepository(db),
		SupportTicketRepository:    NewSupportTicketRepository(db),
		LicenseRepository:          NewLicenseRepository(db),
	}
}
