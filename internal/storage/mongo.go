package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"productdesc/internal/domain"
)

// MongoRepository implements domain.DocumentRepository and
// domain.TemplateRepository on a MongoDB database.
type MongoRepository struct {
	client    *mongo.Client
	documents *mongo.Collection
	templates *mongo.Collection
}

// mongoDocument is the stored shape of a ProductDescription. Blocks are
// kept as their JSON encoding so unknown payloads survive untouched.
type mongoDocument struct {
	ID         string    `bson:"_id"`
	Name       string    `bson:"name"`
	BlocksJSON string    `bson:"blocksJson"`
	BlockCount int       `bson:"blockCount"`
	CreatedAt  time.Time `bson:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt"`
}

type mongoTemplate struct {
	ID          string `bson:"_id"`
	Name        string `bson:"name"`
	Category    string `bson:"category"`
	Description string `bson:"description"`
	BlocksJSON  string `bson:"blocksJson"`
}

// OpenMongo connects to uri and uses the named database.
func OpenMongo(ctx context.Context, uri, database string) (*MongoRepository, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	db := client.Database(database)
	return &MongoRepository{
		client:    client,
		documents: db.Collection("documents"),
		templates: db.Collection("templates"),
	}, nil
}

// Close disconnects the client.
func (r *MongoRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func toMongoDocument(d *domain.ProductDescription) (mongoDocument, error) {
	blocks, err := encodeBlocks(d.Blocks)
	if err != nil {
		return mongoDocument{}, err
	}
	return mongoDocument{
		ID:         d.ID,
		Name:       d.Name,
		BlocksJSON: blocks,
		BlockCount: len(d.Blocks),
		CreatedAt:  d.CreatedAt.UTC(),
		UpdatedAt:  d.UpdatedAt.UTC(),
	}, nil
}

func (m mongoDocument) toDomain() (*domain.ProductDescription, error) {
	blocks, err := decodeBlocks(m.BlocksJSON)
	if err != nil {
		return nil, err
	}
	return &domain.ProductDescription{
		ID:        m.ID,
		Name:      m.Name,
		Blocks:    blocks,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}, nil
}

func (r *MongoRepository) SaveDocument(ctx context.Context, d *domain.ProductDescription) error {
	doc, err := toMongoDocument(d)
	if err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	_, err = r.documents.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

func (r *MongoRepository) GetDocument(ctx context.Context, id string) (*domain.ProductDescription, error) {
	var doc mongoDocument
	err := r.documents.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("get document %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return doc.toDomain()
}

func (r *MongoRepository) ListDocuments(ctx context.Context) ([]domain.DocumentSummary, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "updatedAt", Value: -1}}).
		SetProjection(bson.M{"blocksJson": 0})
	cur, err := r.documents.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []domain.DocumentSummary
	for cur.Next(ctx) {
		var doc mongoDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, domain.DocumentSummary{
			ID:         doc.ID,
			Name:       doc.Name,
			BlockCount: doc.BlockCount,
			UpdatedAt:  doc.UpdatedAt,
		})
	}
	return out, cur.Err()
}

func (r *MongoRepository) DeleteDocument(ctx context.Context, id string) error {
	_, err := r.documents.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *MongoRepository) DocumentUpdatedAt(ctx context.Context, id string) (time.Time, error) {
	var doc struct {
		UpdatedAt time.Time `bson:"updatedAt"`
	}
	err := r.documents.FindOne(ctx, bson.M{"_id": id},
		options.FindOne().SetProjection(bson.M{"updatedAt": 1})).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return time.Time{}, fmt.Errorf("document %s: %w", id, ErrNotFound)
	}
	return doc.UpdatedAt, err
}

func (r *MongoRepository) SaveTemplate(ctx context.Context, t *domain.Template) error {
	blocks, err := encodeBlocks(t.Blocks)
	if err != nil {
		return fmt.Errorf("save template: %w", err)
	}
	doc := mongoTemplate{ID: t.ID, Name: t.Name, Category: t.Category, Description: t.Description, BlocksJSON: blocks}
	_, err = r.templates.ReplaceOne(ctx, bson.M{"_id": t.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save template: %w", err)
	}
	return nil
}

func (r *MongoRepository) ListTemplates(ctx context.Context) ([]domain.Template, error) {
	opts := options.Find().SetSort(bson.D{{Key: "category", Value: 1}, {Key: "name", Value: 1}})
	cur, err := r.templates.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []domain.Template
	for cur.Next(ctx) {
		var doc mongoTemplate
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		blocks, err := decodeBlocks(doc.BlocksJSON)
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", doc.ID, err)
		}
		out = append(out, domain.Template{
			ID: doc.ID, Name: doc.Name, Category: doc.Category, Description: doc.Description, Blocks: blocks,
		})
	}
	return out, cur.Err()
}

func (r *MongoRepository) DeleteTemplate(ctx context.Context, id string) error {
	_, err := r.templates.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
