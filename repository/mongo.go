package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DEterMinat/INTERNET-PROGRAMMING-TANAKIT-sub000/models"
	"github.com/DEterMinat/INTERNET-PROGRAMMING-TANAKIT-sub000/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	// 集合名
	productsCollection  = "products"
	usersCollection     = "users"
	movementsCollection = "stock_movements"
	countersCollection  = "counters"
)

// mongoStore 文档库存储。整型ID通过counters集合的原子自增分配，
// 与关系库的自增主键保持同一套对外语义。
type mongoStore struct {
	client *mongo.Client
	db     *mongo.Database
	policy DeletePolicy
}

// OpenMongoStore 连接MongoDB并初始化索引
func OpenMongoStore(uri, dbName string, policy DeletePolicy) (Store, error) {
	connectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("连接MongoDB失败: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("ping MongoDB失败: %w", err)
	}

	db := client.Database(dbName)
	s := &mongoStore{client: client, db: db, policy: policy}

	if err := s.ensureIndexes(connectCtx); err != nil {
		return nil, err
	}

	utils.Logger.Info().Str("database", dbName).Msg("已连接到MongoDB")
	return s, nil
}

// ensureIndexes 创建唯一索引，唯一约束由数据库保证而不是应用层检查
func (s *mongoStore) ensureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	_, err := s.db.Collection(productsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "sku", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
	})
	if err != nil {
		return fmt.Errorf("创建products索引失败: %w", err)
	}

	_, err = s.db.Collection(usersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
	})
	if err != nil {
		return fmt.Errorf("创建users索引失败: %w", err)
	}
	return nil
}

// nextID 从counters集合原子分配下一个整型ID
func (s *mongoStore) nextID(ctx context.Context, name string) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := s.db.Collection(countersCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("%w: 分配ID失败: %v", models.ErrStoreUnavailable, err)
	}
	return counter.Seq, nil
}

func (s *mongoStore) Products() ProductStore   { return &mongoProducts{s} }
func (s *mongoStore) Users() UserStore         { return &mongoUsers{s} }
func (s *mongoStore) Movements() MovementStore { return &mongoMovements{s} }

func (s *mongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// wrapMongoErr 把驱动错误翻译成存储层错误类别
func wrapMongoErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %v", models.ErrDuplicateKey, err)
	}
	return fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
}

type mongoProducts struct {
	s *mongoStore
}

func (p *mongoProducts) collection() *mongo.Collection {
	return p.s.db.Collection(productsCollection)
}

func (p *mongoProducts) List(ctx context.Context) ([]models.Product, error) {
	cursor, err := p.collection().Find(ctx, bson.M{"isActive": true},
		options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
	if err != nil {
		return nil, wrapMongoErr(err)
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, wrapMongoErr(err)
	}
	return products, nil
}

func (p *mongoProducts) Get(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := p.collection().FindOne(ctx, bson.M{"id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: 商品 %d", models.ErrNotFound, id)
	}
	if err != nil {
		return nil, wrapMongoErr(err)
	}
	return &product, nil
}

func (p *mongoProducts) Create(ctx context.Context, product models.Product) (*models.Product, error) {
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	id, err := p.s.nextID(ctx, productsCollection)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	product.ID = id
	product.IsActive = true
	product.CreatedAt = now
	product.UpdatedAt = now
	if product.Stock > 0 {
		product.LastRestocked = now
	}

	if _, err := p.collection().InsertOne(ctx, product); err != nil {
		return nil, wrapMongoErr(err)
	}
	return &product, nil
}

func (p *mongoProducts) Update(ctx context.Context, id int64, patch models.ProductUpdateRequest) (*models.Product, error) {
	old, err := p.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := applyProductPatch(*old, patch)
	if err != nil {
		return nil, err
	}
	updated.ID = old.ID
	updated.Stock = old.Stock // 库存只通过出入库操作修改

	if _, err := p.collection().ReplaceOne(ctx, bson.M{"id": id}, updated); err != nil {
		return nil, wrapMongoErr(err)
	}
	return &updated, nil
}

func (p *mongoProducts) Delete(ctx context.Context, id int64) (*models.Product, error) {
	if p.s.policy == DeleteHard {
		var removed models.Product
		err := p.collection().FindOneAndDelete(ctx, bson.M{"id": id}).Decode(&removed)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: 商品 %d", models.ErrNotFound, id)
		}
		if err != nil {
			return nil, wrapMongoErr(err)
		}
		return &removed, nil
	}

	var removed models.Product
	err := p.collection().FindOneAndUpdate(ctx,
		bson.M{"id": id, "isActive": true},
		bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&removed)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: 商品 %d", models.ErrNotFound, id)
	}
	if err != nil {
		return nil, wrapMongoErr(err)
	}
	return &removed, nil
}

func (p *mongoProducts) AdjustStock(ctx context.Context, id int64, delta int) (*models.Product, error) {
	now := time.Now()

	// 管道更新在数据库侧完成加减和0截断，避免读改写竞态
	set := bson.M{
		"stock": bson.M{"$max": bson.A{
			bson.M{"$add": bson.A{"$stock", delta}},
			0,
		}},
		"updatedAt": now,
	}
	if delta > 0 {
		set["lastRestocked"] = now
	}

	var updated models.Product
	err := p.collection().FindOneAndUpdate(ctx,
		bson.M{"id": id},
		mongo.Pipeline{{{Key: "$set", Value: set}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: 商品 %d", models.ErrNotFound, id)
	}
	if err != nil {
		return nil, wrapMongoErr(err)
	}
	return &updated, nil
}

func (p *mongoProducts) SetStock(ctx context.Context, id int64, quantity int) (*models.Product, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("%w: 库存不能为负", models.ErrValidation)
	}

	now := time.Now()
	set := bson.M{
		"stock":     quantity,
		"updatedAt": now,
		"lastRestocked": bson.M{"$cond": bson.A{
			bson.M{"$gt": bson.A{quantity, "$stock"}},
			now,
			"$lastRestocked",
		}},
	}

	var updated models.Product
	err := p.collection().FindOneAndUpdate(ctx,
		bson.M{"id": id},
		mongo.Pipeline{{{Key: "$set", Value: set}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: 商品 %d", models.ErrNotFound, id)
	}
	if err != nil {
		return nil, wrapMongoErr(err)
	}
	return &updated, nil
}

type mongoUsers struct {
	s *mongoStore
}

func (u *mongoUsers) collection() *mongo.Collection {
	return u.s.db.Collection(usersCollection)
}

func (u *mongoUsers) List(ctx context.Context) ([]models.User, error) {
	cursor, err := u.collection().Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
	if err != nil {
		return nil, wrapMongoErr(err)
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, wrapMongoErr(err)
	}
	return users, nil
}

func (u *mongoUsers) Get(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := u.collection().FindOne(ctx, bson.M{"id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: 用户 %d", models.ErrNotFound, id)
	}
	if err != nil {
		return nil, wrapMongoErr(err)
	}
	return &user, nil
}

func (u *mongoUsers) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := u.collection().FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapMongoErr(err)
	}
	return &user, nil
}

func (u *mongoUsers) Create(ctx context.Context, user models.User) (*models.User, error) {
	id, err := u.s.nextID(ctx, usersCollection)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user.ID = id
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
		user.UpdatedAt = now
	}

	if _, err := u.collection().InsertOne(ctx, user); err != nil {
		return nil, wrapMongoErr(err)
	}
	return &user, nil
}

func (u *mongoUsers) Update(ctx context.Context, id int64, patch models.UpdateUserRequest) (*models.User, error) {
	old, err := u.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := applyUserPatch(*old, patch)
	if _, err := u.collection().ReplaceOne(ctx, bson.M{"id": id}, updated); err != nil {
		return nil, wrapMongoErr(err)
	}
	return &updated, nil
}

func (u *mongoUsers) Delete(ctx context.Context, id int64) (*models.User, error) {
	var removed models.User
	err := u.collection().FindOneAndDelete(ctx, bson.M{"id": id}).Decode(&removed)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: 用户 %d", models.ErrNotFound, id)
	}
	if err != nil {
		return nil, wrapMongoErr(err)
	}
	return &removed, nil
}

type mongoMovements struct {
	s *mongoStore
}

func (m *mongoMovements) collection() *mongo.Collection {
	return m.s.db.Collection(movementsCollection)
}

func (m *mongoMovements) Insert(ctx context.Context, movement models.StockMovement) (*models.StockMovement, error) {
	id, err := m.s.nextID(ctx, movementsCollection)
	if err != nil {
		return nil, err
	}

	movement.ID = id
	if movement.CreatedAt.IsZero() {
		movement.CreatedAt = time.Now()
	}

	if _, err := m.collection().InsertOne(ctx, movement); err != nil {
		return nil, wrapMongoErr(err)
	}
	return &movement, nil
}

func (m *mongoMovements) List(ctx context.Context, f models.MovementFilter) ([]models.StockMovement, error) {
	query := bson.M{}
	if f.ProductID != 0 {
		query["productId"] = f.ProductID
	}
	if f.Type != "" && f.Type != "all" {
		query["type"] = f.Type
	}
	if !f.Since.IsZero() {
		query["createdAt"] = bson.M{"$gte": f.Since}
	}

	cursor, err := m.collection().Find(ctx, query,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, wrapMongoErr(err)
	}
	defer cursor.Close(ctx)

	movements := []models.StockMovement{}
	if err := cursor.All(ctx, &movements); err != nil {
		return nil, wrapMongoErr(err)
	}
	return movements, nil
}
