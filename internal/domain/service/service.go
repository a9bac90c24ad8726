package service

import (
	"math/rand"
	"time"

	"github.com/lunchpoll/lunch-poll-bot/internal/domain"
	"github.com/lunchpoll/lunch-poll-bot/internal/domain/contract"
)

type Instance struct {
	Poll *pollService
}

// Options tune the poll engine. Zero values fall back to the defaults
// from the domain package.
type Options struct {
	OpenPeriod       int // seconds a poll accepts votes
	MinVotesForOrder int
	Rand             contract.Rand
	Now              func() time.Time
}

func NewInstance(dm contract.DataManager, tg contract.TelegramClient, cal contract.Calendar, opts Options) *Instance {
	if opts.OpenPeriod == 0 {
		opts.OpenPeriod = domain.DefaultPollOpenPeriod
	}
	if opts.MinVotesForOrder == 0 {
		opts.MinVotesForOrder = domain.DefaultMinVotesForOrder
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Now == nil {
		opts.Now = domain.UTCNowMinute
	}

	return &Instance{
		Poll: newPollService(dm, tg, cal, opts),
	}
}

// pollService is the poll lifecycle engine: it creates scheduled and
// on-demand lunch polls, ingests votes, resolves finished polls and
// purges closed ones.
type pollService struct {
	dm       contract.DataManager
	tg       contract.TelegramClient
	calendar contract.Calendar
	catalog  *placeCache
	rand     contract.Rand
	now      func() time.Time

	openPeriod       int
	minVotesForOrder int
}

func newPollService(dm contract.DataManager, tg contract.TelegramClient, cal contract.Calendar, opts Options) *pollService {
	return &pollService{
		dm:               dm,
		tg:               tg,
		calendar:         cal,
		catalog:          &placeCache{},
		rand:             opts.Rand,
		now:              opts.Now,
		openPeriod:       opts.OpenPeriod,
		minVotesForOrder: opts.MinVotesForOrder,
	}
}
