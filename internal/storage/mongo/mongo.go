// mongo предоставляет реализацию storage.RecordsStorage на базе MongoDB.
// Документы коллекции profile_records: {_id: key, value, expires_at, updated_at};
// TTL-индекс по expires_at удаляет истёкшие записи, чтения дополнительно фильтруют по времени.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/pribylovaa/fittrack-dashboard/internal/storage"
	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	recordsCollection = "profile_records"
	defaultDBName     = "fittrack"
)

type recordDoc struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	ExpiresAt time.Time `bson:"expires_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// RecordsStorage - тонкий адаптер MongoDB для записей профиля.
type RecordsStorage struct {
	client  *mongodriver.Client
	records *mongodriver.Collection
	now     func() time.Time
}

// New подключается к MongoDB, проверяет его и обеспечивает индексацию.
// Имя БД берётся из URI, затем из dbName, затем "fittrack".
func New(ctx context.Context, uri, dbName string) (*RecordsStorage, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongo: empty uri")
	}

	cli, err := mongodriver.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := cli.Ping(ctx, readpref.Primary()); err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := cli.Database(databaseFromURI(uri, dbName))

	s := &RecordsStorage{
		client:  cli,
		records: db.Collection(recordsCollection),
		now:     time.Now,
	}

	if err := s.ensureIndexes(ctx); err != nil {
		s.Close()
		return nil, err
	}

	return s, nil
}

// ensureIndexes создает TTL-индекс по expires_at
// (expireAfterSeconds=0 -> используется временная метка документа).
func (s *RecordsStorage) ensureIndexes(ctx context.Context) error {
	_, err := s.records.Indexes().CreateOne(ctx, mongodriver.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetName("ttl_expires_at").SetExpireAfterSeconds(0),
	})
	if err != nil {
		return fmt.Errorf("mongo ensure indexes: %w", err)
	}

	return nil
}

// Record возвращает значение неистёкшей записи.
// Фоновый TTL-монитор MongoDB работает раз в минуту, поэтому фильтр по времени обязателен.
func (s *RecordsStorage) Record(ctx context.Context, key string) (string, error) {
	const op = "storage/mongo/Record"

	filter := bson.M{"_id": key, "expires_at": bson.M{"$gt": s.now().UTC()}}

	var doc recordDoc
	if err := s.records.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return "", fmt.Errorf("%s: %w", op, storage.ErrNotFoundRecord)
		}

		return "", fmt.Errorf("%s: %w", op, err)
	}

	return doc.Value, nil
}

// PutRecord выполняет upsert записи с новым сроком жизни.
func (s *RecordsStorage) PutRecord(ctx context.Context, key, value string, ttl time.Duration) error {
	const op = "storage/mongo/PutRecord"

	now := s.now().UTC()
	update := bson.M{"$set": bson.M{
		"value":      value,
		"expires_at": now.Add(ttl),
		"updated_at": now,
	}}

	_, err := s.records.UpdateOne(ctx, bson.M{"_id": key}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *RecordsStorage) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_ = s.client.Disconnect(ctx)
}

// databaseFromURI извлекает имя БД из пути URI, иначе возвращает fallback или значение по умолчанию.
func databaseFromURI(uri, fallback string) string {
	u, err := url.Parse(uri)
	if err == nil {
		if name := strings.Trim(u.Path, "/"); name != "" {
			return name
		}
	}

	if fallback != "" {
		return fallback
	}

	return defaultDBName
}

var _ storage.RecordsStorage = (*RecordsStorage)(nil)
