package main

import (
	"log"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	"app/internal/infra/session"
	"app/internal/server"
	"app/internal/usecase"
	"app/internal/validator"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

type jwtIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func newJWTIssuer(secret string) *jwtIssuer {
	//アクセストークン
	return &jwtIssuer{
		secret:    []byte(secret),
		accessTTL: 24 * time.Hour,
	}
}

func (i *jwtIssuer) Issue(userID int64, isStaff bool, isAdmin bool, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub":   userID,
		"staff": isStaff,
		"admin": isAdmin,
		"iat":   now.Unix(),
		"exp":   expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func main() {
	//.envは無くてもよい（本番は環境変数で渡す）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatal(err)
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.Shop{},
		&model.Purchase{},
		&model.InventoryAdjustment{},
	); err != nil {
		log.Fatal(err)
	}

	//Repository（GORM実装）生成
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	shopRepo := infraRepo.NewShopGormRepository(gormDB)
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	purchaseRepo := infraRepo.NewPurchaseGormRepository(gormDB)
	inventoryRepo := infraRepo.NewInventoryGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//カートはプロセス内メモリに置く
	cartStore := session.NewMemoryCartStore()

	//usecaseに渡す部品
	idGen := &uuidGenerator{}
	clock := &realClock{}

	//bcrypt（会員登録：Hash / ログイン：Verify）
	hasher := usecase.NewBcryptPasswordHasher(12)
	verifier := usecase.NewBcryptPasswordVerifier()

	//JWT issuer
	issuer := newJWTIssuer(cfg.JWTSecret)

	authValidator := validator.NewAuthValidator()

	//Usecase生成
	authUC := usecase.NewAuthUsecase(userRepo, authValidator, hasher, verifier, issuer, idGen, clock)
	categoryUC := usecase.NewCategoryUsecase(categoryRepo, productRepo)
	productUC := usecase.NewProductUsecase(productRepo, categoryRepo, txManager, idGen)
	shopUC := usecase.NewShopUsecase(shopRepo)
	cartUC := usecase.NewCartUsecase(cartStore, productRepo, inventoryRepo)
	orderUC := usecase.NewOrderUsecase(txManager, cartStore, shopRepo, purchaseRepo)
	adminUserUC := usecase.NewAdminUserUsecase(userRepo, txManager)

	//Handler生成
	handlers := server.Handlers{
		Auth:      handler.NewAuthHandler(authUC, cfg),
		Category:  handler.NewCategoryHandler(categoryUC, cfg),
		Product:   handler.NewProductHandler(productUC, cfg),
		Shop:      handler.NewShopHandler(shopUC, cfg),
		Cart:      handler.NewCartHandler(cartUC, cfg),
		Order:     handler.NewOrderHandler(orderUC, cfg),
		AdminUser: handler.NewAdminUserHandler(adminUserUC, cfg),
	}

	//Server起動
	e := server.New(cfg, handlers)
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
