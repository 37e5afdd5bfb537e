package types

import (
	"fmt"
)

// FeedRounds pairs a feed with its stored round history for genesis
// import/export.
type FeedRounds struct {
	FeedId        string  `json:"feed_id"`
	Rounds        []Round `json:"rounds"`
	LatestRoundId string  `json:"latest_round_id,omitempty"`
}

// GenesisState defines the pricefeed module's genesis state
type GenesisState struct {
	Feeds       []Feed       `json:"feeds"`
	Aggregators []Aggregator `json:"aggregators"`
	FeedRounds  []FeedRounds `json:"feed_rounds"`
}

// DefaultGenesis returns the default genesis state for the pricefeed module.
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Feeds:       []Feed{},
		Aggregators: []Aggregator{},
		FeedRounds:  []FeedRounds{},
	}
}

// Validate ensures the genesis state is well-formed.
func (gs GenesisState) Validate() error {
	feeds := make(map[string]bool, len(gs.Feeds))
	for _, feed := range gs.Feeds {
		if err := feed.Validate(); err != nil {
			return err
		}
		if feeds[feed.FeedId] {
			return fmt.Errorf("duplicate feed id %s", feed.FeedId)
		}
		feeds[feed.FeedId] = true
	}

	aggregators := make(map[string]bool, len(gs.Aggregators))
	for _, agg := range gs.Aggregators {
		if err := agg.Validate(); err != nil {
			return err
		}
		if aggregators[agg.AggregatorId] {
			return fmt.Errorf("duplicate aggregator id %s", agg.AggregatorId)
		}
		if feeds[agg.AggregatorId] {
			return fmt.Errorf("aggregator id %s collides with a feed id", agg.AggregatorId)
		}
		if !feeds[agg.Feed1Id] || !feeds[agg.Feed2Id] {
			return fmt.Errorf("aggregator %s references unknown feeds", agg.AggregatorId)
		}
		aggregators[agg.AggregatorId] = true
	}

	for _, fr := range gs.FeedRounds {
		if !feeds[fr.FeedId] {
			return fmt.Errorf("rounds for unknown feed %s", fr.FeedId)
		}
		for _, round := range fr.Rounds {
			if err := round.Validate(); err != nil {
				return err
			}
		}
	}

	return nil
}
