package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jsuarez/inventario-api/internal/domain"
	"github.com/jsuarez/inventario-api/internal/domain/entity"
	"github.com/jsuarez/inventario-api/internal/domain/repository"
)

const (
	collectionInventory = "inventario"
	collectionCounters  = "counters"
	inventorySequence   = "inventario_id"

	// maxUpdateAttempts intentos de Update ante escrituras concurrentes sobre el mismo producto.
	maxUpdateAttempts = 16
)

var _ repository.StockRepository = (*StockRepository)(nil)

// stockDocument documento de la colección inventario. Version se incrementa en cada escritura
// y permite que Update detecte una modificación concurrente.
type stockDocument struct {
	ID        int64     `bson:"_id"`
	ProductID int64     `bson:"producto_id"`
	Quantity  int       `bson:"cantidad"`
	Version   int64     `bson:"version"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (d *stockDocument) toEntity() *entity.StockRecord {
	return &entity.StockRecord{
		ID:        d.ID,
		ProductID: d.ProductID,
		Quantity:  d.Quantity,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// StockRepository store sobre MongoDB (DB_DRIVER=mongo).
// Ids numéricos desde una colección de contadores; producto_id con índice único.
type StockRepository struct {
	col      *mongo.Collection
	counters *mongo.Collection
	now      func() time.Time
}

// NewStockRepository crea el repositorio y asegura el índice único sobre producto_id.
func NewStockRepository(ctx context.Context, client *mongo.Client, dbName string) (*StockRepository, error) {
	db := client.Database(dbName)
	col := db.Collection(collectionInventory)

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "producto_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uk_inventario_producto"),
	}
	if _, err := col.Indexes().CreateOne(ctx, indexModel); err != nil {
		return nil, fmt.Errorf("mongo: crear índice: %w", err)
	}

	return &StockRepository{
		col:      col,
		counters: db.Collection(collectionCounters),
		now:      func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}, nil
}

func (r *StockRepository) FindByProductID(ctx context.Context, productID int64) (*entity.StockRecord, error) {
	doc, err := r.findDocument(ctx, productID)
	if err != nil || doc == nil {
		return nil, err
	}
	return doc.toEntity(), nil
}

func (r *StockRepository) ExistsByProductID(ctx context.Context, productID int64) (bool, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{"producto_id": productID}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("mongo: exists stock: %w", err)
	}
	return n > 0, nil
}

// Save actualiza la cantidad del producto o inserta un documento nuevo con id del contador.
func (r *StockRepository) Save(ctx context.Context, record *entity.StockRecord) (*entity.StockRecord, error) {
	if record.Quantity < 0 {
		return nil, domain.NewValidationError("cantidad", "no puede ser negativa")
	}

	for attempt := 0; attempt < 2; attempt++ {
		doc, err := r.overwrite(ctx, record.ProductID, record.Quantity)
		if err != nil {
			return nil, err
		}
		if doc != nil {
			return doc.toEntity(), nil
		}

		id, err := r.nextID(ctx)
		if err != nil {
			return nil, err
		}
		now := r.now()
		doc = &stockDocument{
			ID:        id,
			ProductID: record.ProductID,
			Quantity:  record.Quantity,
			Version:   1,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if _, err := r.col.InsertOne(ctx, doc); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				// otro proceso insertó el mismo producto: se sobrescribe en la siguiente vuelta
				continue
			}
			return nil, fmt.Errorf("mongo: insert stock: %w", err)
		}
		return doc.toEntity(), nil
	}
	return nil, fmt.Errorf("mongo: save stock %d: conflicto de escritura", record.ProductID)
}

func (r *StockRepository) Delete(ctx context.Context, record *entity.StockRecord) error {
	if _, err := r.col.DeleteOne(ctx, bson.M{"producto_id": record.ProductID}); err != nil {
		return fmt.Errorf("mongo: delete stock: %w", err)
	}
	return nil
}

func (r *StockRepository) FindAll(ctx context.Context) ([]*entity.StockRecord, error) {
	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("mongo: list stock: %w", err)
	}
	return decodeAll(ctx, cur)
}

func (r *StockRepository) FindAllPaged(ctx context.Context, req entity.PageRequest) (*entity.Page[*entity.StockRecord], error) {
	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("mongo: count stock: %w", err)
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(int64(req.Offset())).
		SetLimit(int64(req.Size))
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: page stock: %w", err)
	}
	items, err := decodeAll(ctx, cur)
	if err != nil {
		return nil, err
	}
	return entity.NewPage(items, req, total), nil
}

// Update lectura-modificación-escritura con control optimista: el FindOneAndUpdate solo
// aplica si la versión leída sigue vigente; si otro proceso escribió antes, se relee y se vuelve a aplicar fn.
func (r *StockRepository) Update(ctx context.Context, productID int64, fn func(record *entity.StockRecord) error) (*entity.StockRecord, error) {
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		current, err := r.findDocument(ctx, productID)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, domain.ErrNotFound
		}

		working := current.toEntity()
		if err := fn(working); err != nil {
			return nil, err
		}
		if working.Quantity < 0 {
			return nil, domain.NewValidationError("cantidad", "no puede ser negativa")
		}

		filter := bson.M{"producto_id": productID, "version": current.Version}
		update := bson.M{
			"$set": bson.M{"cantidad": working.Quantity, "updated_at": r.now()},
			"$inc": bson.M{"version": 1},
		}
		var updated stockDocument
		err = r.col.FindOneAndUpdate(ctx, filter, update,
			options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&updated)
		if err == nil {
			return updated.toEntity(), nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("mongo: update stock: %w", err)
		}
	}
	return nil, fmt.Errorf("mongo: update stock %d: demasiadas escrituras concurrentes", productID)
}

func (r *StockRepository) findDocument(ctx context.Context, productID int64) (*stockDocument, error) {
	var doc stockDocument
	err := r.col.FindOne(ctx, bson.M{"producto_id": productID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("mongo: get stock: %w", err)
	}
	return &doc, nil
}

// overwrite fija la cantidad si el documento existe; (nil, nil) si no existe.
func (r *StockRepository) overwrite(ctx context.Context, productID int64, quantity int) (*stockDocument, error) {
	update := bson.M{
		"$set": bson.M{"cantidad": quantity, "updated_at": r.now()},
		"$inc": bson.M{"version": 1},
	}
	var doc stockDocument
	err := r.col.FindOneAndUpdate(ctx, bson.M{"producto_id": productID}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("mongo: overwrite stock: %w", err)
	}
	return &doc, nil
}

func (r *StockRepository) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": inventorySequence},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("mongo: siguiente id: %w", err)
	}
	return counter.Seq, nil
}

func decodeAll(ctx context.Context, cur *mongo.Cursor) ([]*entity.StockRecord, error) {
	defer cur.Close(ctx)
	out := make([]*entity.StockRecord, 0)
	for cur.Next(ctx) {
		var doc stockDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("mongo: decode stock: %w", err)
		}
		out = append(out, doc.toEntity())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("mongo: iterate stock: %w", err)
	}
	return out, nil
}
