package boardclient

import "fmt"

// StageReorderer backs the settings pages where an admin drags whole
// columns around. The optimistic new order is written as one batch call;
// on failure the catalog is refetched, discarding the optimistic reorder.
type StageReorderer struct {
	client     *Client
	production bool
	stages     []Stage
}

// NewStageReorderer creates a reorderer for the Kanban catalog
func NewStageReorderer(client *Client) *StageReorderer {
	return &StageReorderer{client: client}
}

// NewProductionStageReorderer creates a reorderer for the production catalog
func NewProductionStageReorderer(client *Client) *StageReorderer {
	return &StageReorderer{client: client, production: true}
}

// Load fetches the catalog
func (r *StageReorderer) Load() error {
	stages, err := r.fetch()
	if err != nil {
		return err
	}
	r.stages = stages
	return nil
}

// Stages returns the catalog in current local order
func (r *StageReorderer) Stages() []Stage {
	return r.stages
}

// MoveStage drags a column to a new position and persists the whole
// ordering in one batch write.
func (r *StageReorderer) MoveStage(stageID string, toIndex int) error {
	from := -1
	for i, s := range r.stages {
		if s.ID == stageID {
			from = i
			break
		}
	}
	if from < 0 {
		return fmt.Errorf("stage %q not found", stageID)
	}
	if toIndex < 0 {
		toIndex = 0
	}
	if toIndex >= len(r.stages) {
		toIndex = len(r.stages) - 1
	}

	// Optimistic local reorder.
	stage := r.stages[from]
	rest := append(r.stages[:from:from], r.stages[from+1:]...)
	reordered := make([]Stage, 0, len(rest)+1)
	reordered = append(reordered, rest[:toIndex]...)
	reordered = append(reordered, stage)
	reordered = append(reordered, rest[toIndex:]...)
	r.stages = reordered

	positions := make([]StagePosition, len(r.stages))
	for i, s := range r.stages {
		positions[i] = StagePosition{ID: s.ID, Order: i + 1}
	}

	if err := r.persist(positions); err != nil {
		// Discard the optimistic reorder; server order wins.
		if stages, ferr := r.fetch(); ferr == nil {
			r.stages = stages
		}
		return err
	}
	return nil
}

func (r *StageReorderer) fetch() ([]Stage, error) {
	if r.production {
		return r.client.FetchProductionStages()
	}
	return r.client.FetchStages()
}

func (r *StageReorderer) persist(positions []StagePosition) error {
	if r.production {
		return r.client.ReorderProductionStages(positions)
	}
	return r.client.ReorderStages(positions)
}
