package boardclient

import "fmt"

// TaskBoard mirrors the production board. Unlike the Kanban board it owns
// real local column state: cards are reordered and moved optimistically,
// and only cross-column moves touch the network.
//
// On a failed persistence call the board restores the pre-move snapshot by
// default. The old UI kept the card in the target column until the next
// refetch; WithKeepStaleOnFailure preserves that behavior for callers that
// depend on it.
type TaskBoard struct {
	client             *Client
	columns            map[string][]Job
	stages             []Stage
	keepStaleOnFailure bool
}

// TaskBoardOption configures a TaskBoard
type TaskBoardOption func(*TaskBoard)

// WithKeepStaleOnFailure disables rollback on persistence failure,
// reproducing the legacy optimistic-without-rollback behavior.
func WithKeepStaleOnFailure() TaskBoardOption {
	return func(b *TaskBoard) {
		b.keepStaleOnFailure = true
	}
}

// NewTaskBoard creates an empty board bound to an API client
func NewTaskBoard(client *Client, opts ...TaskBoardOption) *TaskBoard {
	b := &TaskBoard{
		client:  client,
		columns: make(map[string][]Job),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Load seeds the column state from a full fetch of active jobs
func (b *TaskBoard) Load() error {
	stages, err := b.client.FetchProductionStages()
	if err != nil {
		return err
	}
	jobs, err := b.client.FetchJobs()
	if err != nil {
		return err
	}

	columns := make(map[string][]Job, len(stages))
	for _, s := range stages {
		columns[s.ID] = nil
	}
	for _, j := range jobs {
		columns[j.StageID] = append(columns[j.StageID], j)
	}

	b.stages = stages
	b.columns = columns
	return nil
}

// Stages returns the board's columns in display order
func (b *TaskBoard) Stages() []Stage {
	return b.stages
}

// Column returns the jobs currently in a stage, in local order
func (b *TaskBoard) Column(stageID string) []Job {
	return b.columns[stageID]
}

// MoveJob handles a drag end. Same-column moves are a pure local reorder
// and never issue a network call; cross-column moves apply the optimistic
// update and then issue exactly one stage PATCH.
func (b *TaskBoard) MoveJob(jobID uint, fromStage, toStage string, toIndex int) error {
	fromColumn, idx := b.find(fromStage, jobID)
	if idx < 0 {
		return fmt.Errorf("job %d is not in column %q", jobID, fromStage)
	}

	if fromStage == toStage {
		b.columns[fromStage] = reorder(fromColumn, idx, toIndex)
		return nil
	}

	// A target column the board never loaded means our stage list is stale;
	// surface that instead of silently growing a column.
	if _, ok := b.columns[toStage]; !ok {
		return fmt.Errorf("stage %q is not on the board", toStage)
	}

	// Snapshot the two affected columns before the optimistic mutation.
	snapshotFrom := append([]Job(nil), b.columns[fromStage]...)
	snapshotTo := append([]Job(nil), b.columns[toStage]...)

	job := fromColumn[idx]
	job.StageID = toStage
	b.columns[fromStage] = append(fromColumn[:idx:idx], fromColumn[idx+1:]...)
	b.columns[toStage] = insertAt(b.columns[toStage], job, toIndex)

	if err := b.client.UpdateJobStage(jobID, toStage); err != nil {
		if !b.keepStaleOnFailure {
			b.columns[fromStage] = snapshotFrom
			b.columns[toStage] = snapshotTo
		}
		return err
	}
	return nil
}

// find locates a job inside a column
func (b *TaskBoard) find(stageID string, jobID uint) ([]Job, int) {
	column := b.columns[stageID]
	for i, j := range column {
		if j.ID == jobID {
			return column, i
		}
	}
	return column, -1
}

// reorder moves the element at from to position to within one column
func reorder(column []Job, from, to int) []Job {
	if to < 0 {
		to = 0
	}
	if to >= len(column) {
		to = len(column) - 1
	}
	if from == to {
		return column
	}

	job := column[from]
	column = append(column[:from], column[from+1:]...)

	result := make([]Job, 0, len(column)+1)
	result = append(result, column[:to]...)
	result = append(result, job)
	result = append(result, column[to:]...)
	return result
}

// insertAt inserts a job at the given index, clamping out-of-range values
func insertAt(column []Job, job Job, index int) []Job {
	if index < 0 || index > len(column) {
		index = len(column)
	}
	result := make([]Job, 0, len(column)+1)
	result = append(result, column[:index]...)
	result = append(result, job)
	result = append(result, column[index:]...)
	return result
}
