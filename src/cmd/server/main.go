package main

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	applcustomer "github.com/jackyeh168/loyalty_engine/src/internal/application/customer"
	applledger "github.com/jackyeh168/loyalty_engine/src/internal/application/ledger"
	applreferral "github.com/jackyeh168/loyalty_engine/src/internal/application/referral"
	applreward "github.com/jackyeh168/loyalty_engine/src/internal/application/reward"
	"github.com/jackyeh168/loyalty_engine/src/internal/config"
	"github.com/jackyeh168/loyalty_engine/src/internal/domain/ledger"
	"github.com/jackyeh168/loyalty_engine/src/internal/domain/settings"
	"github.com/jackyeh168/loyalty_engine/src/internal/infrastructure/persistence"
	custpersistence "github.com/jackyeh168/loyalty_engine/src/internal/infrastructure/persistence/customer"
	ledgerpersistence "github.com/jackyeh168/loyalty_engine/src/internal/infrastructure/persistence/ledger"
	rewardpersistence "github.com/jackyeh168/loyalty_engine/src/internal/infrastructure/persistence/reward"
	settingspersistence "github.com/jackyeh168/loyalty_engine/src/internal/infrastructure/persistence/settings"
	httpinterface "github.com/jackyeh168/loyalty_engine/src/internal/interfaces/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// 倉儲與事務管理器
	customerRepo := custpersistence.NewCustomerRepository(db)
	lotRepo := ledgerpersistence.NewPointLotRepository(db)
	entryRepo := ledgerpersistence.NewLedgerEntryRepository(db)
	rewardRepo := rewardpersistence.NewRewardRepository(db)
	redemptionRepo := rewardpersistence.NewRedemptionRepository(db)
	settingsRepo := settingspersistence.NewSettingsRepository(db)
	txManager := persistence.NewGORMTransactionManager(db)

	if err := seedSettings(settingsRepo); err != nil {
		log.Fatal("Failed to seed loyalty settings:", err)
	}

	// Use Cases
	grantPoints := applledger.NewGrantPointsUseCase(customerRepo, lotRepo, entryRepo, settingsRepo, txManager)
	spendPoints := applledger.NewSpendPointsUseCase(customerRepo, lotRepo, entryRepo, txManager)
	conversionSvc := ledger.NewPointsConversionService()
	earnFromOrder := applledger.NewEarnFromOrderUseCase(customerRepo, settingsRepo, conversionSvc, grantPoints, txManager)
	getBalance := applledger.NewGetBalanceUseCase(customerRepo, lotRepo)
	expirePoints := applledger.NewExpirePointsUseCase(customerRepo, lotRepo, entryRepo, redemptionRepo, txManager)
	applyReferral := applreferral.NewApplyReferralUseCase(customerRepo, settingsRepo, grantPoints, txManager)
	registerCustomer := applcustomer.NewRegisterCustomerUseCase(customerRepo, applyReferral, txManager)
	redeemReward := applreward.NewRedeemRewardUseCase(rewardRepo, redemptionRepo, settingsRepo, spendPoints, txManager)
	applyCoupon := applreward.NewApplyCouponUseCase(rewardRepo, redemptionRepo, txManager)
	cancelRedemption := applreward.NewCancelRedemptionUseCase(redemptionRepo, txManager)

	// 背景過期清掃
	if cfg.SweepIntervalMinutes > 0 {
		go runSweepLoop(expirePoints, time.Duration(cfg.SweepIntervalMinutes)*time.Minute)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	handlers := httpinterface.NewHandlers(
		registerCustomer,
		getBalance,
		earnFromOrder,
		expirePoints,
		applyReferral,
		redeemReward,
		applyCoupon,
		cancelRedemption,
	)
	router := httpinterface.NewRouter(handlers)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}).Handler(router)

	log.Printf("Loyalty engine listening on port %s", cfg.ServerPort)
	if err := http.ListenAndServe(":"+cfg.ServerPort, corsHandler); err != nil {
		log.Fatal("Server error:", err)
	}
}

// migrate 建立資料表
func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&custpersistence.CustomerGORM{},
		&ledgerpersistence.PointLotGORM{},
		&ledgerpersistence.LedgerEntryGORM{},
		&rewardpersistence.RewardGORM{},
		&rewardpersistence.RedemptionGORM{},
		&settingspersistence.LoyaltySettingsGORM{},
	)
}

// seedSettings 首次啟動時播種預設計畫設定
func seedSettings(repo settings.SettingsRepository) error {
	_, err := repo.Load(nil)
	if err == nil {
		return nil
	}
	if !errors.Is(err, settings.ErrSettingsNotFound) {
		return err
	}
	log.Println("Seeding default loyalty settings")
	return repo.Save(nil, settings.DefaultSettings())
}

// runSweepLoop 週期性執行過期清掃
func runSweepLoop(expirePoints *applledger.ExpirePointsUseCase, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		result, err := expirePoints.Execute(applledger.ExpirePointsCommand{})
		if err != nil {
			log.Printf("Expiration sweep failed: %v", err)
			continue
		}
		if result.LotsExpired > 0 || result.RedemptionsExpired > 0 {
			log.Printf(
				"Expiration sweep: %d lots (%d points) across %d customers, %d redemptions expired",
				result.LotsExpired, result.PointsExpired, result.CustomersSwept, result.RedemptionsExpired,
			)
		}
	}
}
