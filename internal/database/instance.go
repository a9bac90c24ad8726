package database

import (
	"context"
	"fmt"

	"github.com/lunchpoll/lunch-poll-bot/internal/domain/contract"
)

// instance implements the DataManager interface
type instance struct {
	db               *DB
	subscriptionRepo contract.SubscriptionRepo
	placeRepo        contract.PlaceRepo
	pollRepo         contract.PollRepo
	voteRepo         contract.VoteRepo
	chatStateRepo    contract.ChatStateRepo
}

// NewInstance creates a new database instance with all repositories
func NewInstance(db *DB) contract.DataManager {
	i := &instance{db: db}
	repos := repoInstancesWithConn(db.conn)
	i.subscriptionRepo = repos.subscriptionRepo
	i.placeRepo = repos.placeRepo
	i.pollRepo = repos.pollRepo
	i.voteRepo = repos.voteRepo
	i.chatStateRepo = repos.chatStateRepo
	return i
}

// repoInstancesWithConn creates repository instances with a custom dbConn
func repoInstancesWithConn(db dbConn) *instance {
	return &instance{
		subscriptionRepo: newSubscriptionRepo(db),
		placeRepo:        newPlaceRepo(db),
		pollRepo:         newPollRepo(db),
		voteRepo:         newVoteRepo(db),
		chatStateRepo:    newChatStateRepo(db),
	}
}

func (i *instance) Subscription() contract.SubscriptionRepo {
	return i.subscriptionRepo
}

func (i *instance) Place() contract.PlaceRepo {
	return i.placeRepo
}

func (i *instance) Poll() contract.PollRepo {
	return i.pollRepo
}

func (i *instance) Vote() contract.VoteRepo {
	return i.voteRepo
}

func (i *instance) ChatState() contract.ChatStateRepo {
	return i.chatStateRepo
}

// WithTransaction executes a function within a database transaction
func (i *instance) WithTransaction(ctx context.Context, fn func(dm contract.DataManager) error) error {
	if i.db == nil {
		// Already inside a transaction, reuse it
		return fn(i)
	}

	tx, err := i.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	txInstance := repoInstancesWithConn(tx)
	err = fn(txInstance)
	if err != nil {
		rbErr := tx.Rollback()
		if rbErr != nil {
			return fmt.Errorf("error rolling back transaction: %v, original error: %w", rbErr, err)
		}
		return err
	}

	return tx.Commit()
}
