package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"hackhub/internal/config"
	"hackhub/internal/db"
	apperrors "hackhub/internal/errors"
	"hackhub/internal/model"
	"hackhub/internal/repository"
)

const seedPassword = "password123"

type seedUser struct {
	name  string
	email string
	role  string
}

var seedUsers = []seedUser{
	{name: "Olivia Chen", email: "organizer@hackhub.local", role: model.RoleOrganizer},
	{name: "Sam Carter", email: "sam@hackhub.local", role: model.RoleParticipant},
	{name: "Priya Nair", email: "priya@hackhub.local", role: model.RoleParticipant},
	{name: "Diego Alvarez", email: "diego@hackhub.local", role: model.RoleParticipant},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	database, err := db.NewMongo(cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.EnsureIndexes(context.Background(), database); err != nil {
		log.Fatalf("Failed to ensure indexes: %v", err)
	}
	log.Println("Connected to database")

	userRepo := repository.NewUserRepository(database)
	eventRepo := repository.NewEventRepository(database)
	teamRepo := repository.NewTeamRepository(database)

	ctx := context.Background()

	users, err := ensureUsers(ctx, userRepo)
	if err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}
	log.Printf("Seeded %d users (password: %s)", len(users), seedPassword)

	organizer := users[0]
	event, err := ensureEvent(ctx, eventRepo, organizer.ID)
	if err != nil {
		log.Fatalf("Failed to seed event: %v", err)
	}
	log.Printf("Seeded event %q (%s)", event.Title, event.ID.Hex())

	participants := users[1:]
	for _, u := range participants {
		if err := registerParticipant(ctx, eventRepo, userRepo, event.ID, u.ID); err != nil {
			log.Fatalf("Failed to register %s: %v", u.Email, err)
		}
	}
	log.Printf("Registered %d participants", len(participants))

	team, err := ensureTeam(ctx, teamRepo, eventRepo, userRepo, event, participants)
	if err != nil {
		log.Fatalf("Failed to seed team: %v", err)
	}
	if team != nil {
		log.Printf("Seeded team %q (%s)", team.Name, team.ID.Hex())
	}

	log.Println("Seed completed successfully!")
}

// ensureUsers creates the demo accounts, reusing any that already exist.
func ensureUsers(ctx context.Context, repo repository.UserRepository) ([]*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	users := make([]*model.User, 0, len(seedUsers))
	for _, s := range seedUsers {
		now := time.Now()
		user := &model.User{
			Name:               s.name,
			Email:              s.email,
			PasswordHash:       string(hash),
			Role:               s.role,
			IsEmailVerified:    true,
			Skills:             []string{},
			ParticipatedEvents: []primitive.ObjectID{},
			Teams:              []primitive.ObjectID{},
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		err := repo.Create(ctx, user)
		if errors.Is(err, apperrors.ErrEmailTaken) {
			existing, findErr := repo.FindByEmail(ctx, s.email)
			if findErr != nil {
				return nil, findErr
			}
			users = append(users, existing)
			continue
		}
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func ensureEvent(ctx context.Context, repo repository.EventRepository, organizerID primitive.ObjectID) (*model.Event, error) {
	const title = "HackHub Demo Hackathon"

	existing, err := repo.List(ctx, repository.EventFilter{Search: title})
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if existing[i].Title == title {
			return &existing[i].Event, nil
		}
	}

	now := time.Now()
	event := &model.Event{
		Title:                title,
		Description:          "A 48 hour hackathon seeded for local development.",
		StartDate:            now.AddDate(0, 0, 14),
		EndDate:              now.AddDate(0, 0, 16),
		RegistrationDeadline: now.AddDate(0, 0, 13),
		Organizer:            organizerID,
		Participants:         []primitive.ObjectID{},
		Teams:                []primitive.ObjectID{},
		MaxTeamSize:          4,
		Status:               model.EventStatusUpcoming,
		Venue:                "Online",
		Prizes:               "Bragging rights",
		Rules:                "Be kind. Ship something.",
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := repo.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func registerParticipant(ctx context.Context, eventRepo repository.EventRepository, userRepo repository.UserRepository, eventID, userID primitive.ObjectID) error {
	err := eventRepo.AddParticipant(ctx, eventID, userID)
	if errors.Is(err, apperrors.ErrAlreadyRegistered) {
		return nil
	}
	if err != nil {
		return err
	}
	return userRepo.AddParticipatedEvent(ctx, userID, eventID)
}

func ensureTeam(ctx context.Context, teamRepo repository.TeamRepository, eventRepo repository.EventRepository, userRepo repository.UserRepository, event *model.Event, participants []*model.User) (*model.Team, error) {
	if len(participants) == 0 {
		return nil, nil
	}
	leader := participants[0]
	for _, existing := range leader.Teams {
		team, err := teamRepo.FindByID(ctx, existing)
		if err == nil && team.Event == event.ID {
			return team, nil
		}
	}

	now := time.Now()
	team := &model.Team{
		Name:       "Demo Team",
		Leader:     leader.ID,
		Members:    []primitive.ObjectID{leader.ID},
		Event:      event.ID,
		MaxMembers: event.MaxTeamSize,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := teamRepo.Create(ctx, team); err != nil {
		return nil, err
	}
	if err := eventRepo.AddTeam(ctx, event.ID, team.ID); err != nil {
		return nil, err
	}
	if err := userRepo.AddTeam(ctx, leader.ID, team.ID); err != nil {
		return nil, err
	}
	return team, nil
}
