package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Yousuf-177/TaskFlow/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TaskRepository struct {
	collection *mongo.Collection
}

func NewTaskRepository(collection *mongo.Collection) *TaskRepository {
	return &TaskRepository{collection: collection}
}

// filterToBSON translates a TaskFilter into a Mongo query document.
func filterToBSON(f models.TaskFilter) bson.M {
	query := bson.M{}
	if f.AssignedTo != nil {
		// matches array elements
		query["assignedTo"] = *f.AssignedTo
	}
	switch {
	case f.Status != "" && f.ExcludeStatus != "":
		query["status"] = bson.M{"$eq": f.Status, "$ne": f.ExcludeStatus}
	case f.Status != "":
		query["status"] = f.Status
	case f.ExcludeStatus != "":
		query["status"] = bson.M{"$ne": f.ExcludeStatus}
	}
	if f.DueBefore != nil {
		query["dueDate"] = bson.M{"$lt": *f.DueBefore}
	}
	return query
}

func (r *TaskRepository) Find(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	cursor, err := r.collection.Find(ctx, filterToBSON(filter))
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve tasks: %w", err)
	}
	defer cursor.Close(ctx)

	tasks := []models.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	var task models.Task
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&task)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("error fetching task: %w", err)
	}
	return &task, nil
}

func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	result, err := r.collection.InsertOne(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	task.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// Save replaces the stored document wholesale; concurrent writers are
// last-write-wins.
func (r *TaskRepository) Save(ctx context.Context, task *models.Task) error {
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": task.ID}, task)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if result.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *TaskRepository) Count(ctx context.Context, filter models.TaskFilter) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, filterToBSON(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return count, nil
}

// groupPipeline builds the $match/$group pipeline used by CountBy.
func groupPipeline(filter models.TaskFilter, field string) (mongo.Pipeline, error) {
	if field != models.FieldStatus && field != models.FieldPriority {
		return nil, fmt.Errorf("cannot group tasks by %q", field)
	}
	return mongo.Pipeline{
		{{Key: "$match", Value: filterToBSON(filter)}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + field},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}, nil
}

// CountBy counts matching tasks grouped by field value.
func (r *TaskRepository) CountBy(ctx context.Context, filter models.TaskFilter, field string) (map[string]int64, error) {
	pipeline, err := groupPipeline(filter, field)
	if err != nil {
		return nil, err
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate tasks by %s: %w", field, err)
	}
	defer cursor.Close(ctx)

	var groups []struct {
		Value string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, fmt.Errorf("failed to decode %s groups: %w", field, err)
	}

	counts := make(map[string]int64, len(groups))
	for _, g := range groups {
		counts[g.Value] = g.Count
	}
	return counts, nil
}

// Recent returns up to limit matching tasks, newest first.
func (r *TaskRepository) Recent(ctx context.Context, filter models.TaskFilter, limit int64) ([]models.RecentTask, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit).
		SetProjection(bson.M{"title": 1, "dueDate": 1, "priority": 1, "status": 1, "createdAt": 1})

	cursor, err := r.collection.Find(ctx, filterToBSON(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve recent tasks: %w", err)
	}
	defer cursor.Close(ctx)

	recent := []models.RecentTask{}
	if err := cursor.All(ctx, &recent); err != nil {
		return nil, fmt.Errorf("failed to decode recent tasks: %w", err)
	}
	return recent, nil
}
