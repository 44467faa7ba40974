package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/base/database/mongoclient"
	"github.com/x-xyz/nftmarket/base/database/redisclient"
	"github.com/x-xyz/nftmarket/base/env"
	"github.com/x-xyz/nftmarket/base/goroutine"
	"github.com/x-xyz/nftmarket/base/log"
	"github.com/x-xyz/nftmarket/base/metrics"
	bValidator "github.com/x-xyz/nftmarket/base/validator"
	"github.com/x-xyz/nftmarket/domain"
	"github.com/x-xyz/nftmarket/domain/asset"
	"github.com/x-xyz/nftmarket/domain/keys"
	"github.com/x-xyz/nftmarket/domain/listing"
	"github.com/x-xyz/nftmarket/domain/payment"
	mmiddleware "github.com/x-xyz/nftmarket/middleware"
	"github.com/x-xyz/nftmarket/service/cache"
	"github.com/x-xyz/nftmarket/service/cache/provider"
	"github.com/x-xyz/nftmarket/service/cache/provider/primitive"
	cacheRedis "github.com/x-xyz/nftmarket/service/cache/provider/redis"
	"github.com/x-xyz/nftmarket/service/discord"
	"github.com/x-xyz/nftmarket/service/memdb"
	"github.com/x-xyz/nftmarket/service/query"
	"github.com/x-xyz/nftmarket/service/redis"
	asset_delivery "github.com/x-xyz/nftmarket/stores/asset/delivery/http"
	asset_repository "github.com/x-xyz/nftmarket/stores/asset/repository"
	asset_usecase "github.com/x-xyz/nftmarket/stores/asset/usecase"
	auth_delivery "github.com/x-xyz/nftmarket/stores/auth/delivery/http"
	auth_middleware "github.com/x-xyz/nftmarket/stores/auth/delivery/http/middleware"
	auth_usecase "github.com/x-xyz/nftmarket/stores/auth/usecase"
	hc_delivery "github.com/x-xyz/nftmarket/stores/healthcheck/delivery/http"
	hc_repo "github.com/x-xyz/nftmarket/stores/healthcheck/repository"
	hc_usecase "github.com/x-xyz/nftmarket/stores/healthcheck/usecase"
	listing_delivery "github.com/x-xyz/nftmarket/stores/listing/delivery/http"
	listing_repository "github.com/x-xyz/nftmarket/stores/listing/repository"
	listing_usecase "github.com/x-xyz/nftmarket/stores/listing/usecase"
	payment_delivery "github.com/x-xyz/nftmarket/stores/payment/delivery/http"
	payment_repository "github.com/x-xyz/nftmarket/stores/payment/repository"
	payment_usecase "github.com/x-xyz/nftmarket/stores/payment/usecase"

	_ "github.com/x-xyz/nftmarket/app/api/docs"
)

const (
	driverMongo  = "mongo"
	driverMemory = "memory"
)

func init() {
	configPath := pflag.String("config", env.ConfigPath(), "path of the yaml config")
	pflag.Parse()

	viper.SetConfigType("yaml")
	viper.SetConfigFile(*configPath)
	err := viper.ReadInConfig()
	if err != nil {
		panic(err)
	}

	if err := log.Init(viper.GetBool("debug")); err != nil {
		panic(err)
	}
	if viper.GetBool(`debug`) {
		log.Log().Info("Service RUN on DEBUG mode")
	}
}

// repos is the storage backend picked by storage.driver
type repos struct {
	tx       domain.Transactor
	asset    asset.Repo
	listing  listing.Repo
	sale     listing.SaleRepo
	payment  payment.Repo
	// nil unless storage.driver is mongo
	q        query.Mongo
}

func mustInitRepos(c ctx.Ctx) repos {
	switch driver := viper.GetString("storage.driver"); driver {
	case driverMongo:
		c.Info("init mongo")
		cfg := mongoclient.Config{}
		if err := viper.UnmarshalKey("mongo", &cfg); err != nil {
			c.WithField("err", err).Panic("viper.UnmarshalKey failed")
		}
		cfg.SetSafe = true
		mongoClient := mongoclient.MustConnect(cfg)
		if err := mongoClient.EnsureIndexes(c, indexes); err != nil {
			c.WithField("err", err).Panic("mongoClient.EnsureIndexes failed")
		}
		q := query.New(mongoClient, cfg.CheckIndex)
		return repos{
			tx:       q,
			asset:    asset_repository.NewMongo(q),
			listing:  listing_repository.NewMongo(q),
			sale:     listing_repository.NewSaleMongo(q),
			payment:  payment_repository.NewMongo(q),
			q:        q,
		}
	case driverMemory, "":
		c.Warn("storage.driver is memory, state is lost on restart")
		db := memdb.New()
		return repos{
			tx:      db,
			asset:   asset_repository.NewMemory(db),
			listing: listing_repository.NewMemory(db),
			sale:    listing_repository.NewSaleMemory(db),
			payment: payment_repository.NewMemory(db),
		}
	default:
		c.WithField("driver", driver).Panic("unknown storage.driver")
	}
	return repos{}
}

//	@title			NFT Market API
//	@version		1.0
//	@description	API Document for the NFT market ledger.

// main
//
//	@securityDefinitions.apikey	ApiKeyAuth
//	@in							header
//	@name						Authorization
//	@description				retrive token from #/auth/post_auth_sign and apply with `bearer {token}`
func main() {
	defer log.Sync()

	// init echo
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{}))
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.ResponseLogger())
	e.Use(middL.AddContext())
	e.Use(middleware.CORS())
	e.Validator = bValidator.NewCustomValidator(bValidator.New())

	context := ctx.Background()

	r := mustInitRepos(context)

	// init Redis service
	var redisCache redis.Service
	redisCfg := redisclient.Config{}
	if err := viper.UnmarshalKey("redis_cache", &redisCfg); err != nil {
		context.WithField("err", err).Panic("viper.UnmarshalKey failed")
	}
	if redisCfg.Enabled {
		context.Info("init redis cache")
		redisCache = redis.New(redisCfg.Name, metrics.New(redisCfg.Name), &redis.Pools{
			Src: redisclient.MustConnect(redisCfg),
		})
	}

	// shared caches live in redis when it is there, otherwise in process
	var cacheProvider provider.Provider
	if redisCache != nil {
		cacheProvider = cacheRedis.NewRedis(redisCache)
	} else {
		cacheProvider = primitive.NewPrimitive("local", viper.GetInt("cache.localSizeMB"))
	}
	cacheTtl := viper.GetDuration("cache.ttl")

	marketCache := cache.New(cache.ServiceConfig{
		Ttl:   cacheTtl,
		Pfx:   keys.PfxMarket,
		Cache: cacheProvider,
	})
	nonceCache := cache.New(cache.ServiceConfig{
		Ttl:   viper.GetDuration("auth.nonceTtl"),
		Pfx:   keys.PfxNonce,
		Cache: cacheProvider,
	})
	httpCache := mmiddleware.CacheHttp(cache.New(cache.ServiceConfig{
		Ttl:   cacheTtl,
		Pfx:   mmiddleware.CachePfx,
		Cache: cacheProvider,
	}))

	discordCfg := discord.Config{}
	if err := viper.UnmarshalKey("discord", &discordCfg); err != nil {
		context.WithField("err", err).Panic("viper.UnmarshalKey failed")
	}
	notifier, err := discord.New(discordCfg)
	if err != nil {
		context.WithField("err", err).Panic("discord.New failed")
	}
	defer notifier.Close()

	listingFee, err := domain.ParseAmount(viper.GetString("market.listingFee"))
	if err != nil || listingFee.IsNegative() {
		context.WithField("listingFee", viper.GetString("market.listingFee")).Panic("invalid market.listingFee")
	}
	feeRecipient := domain.Address(viper.GetString("market.feeRecipient"))
	if !bValidator.IsValidAddress(string(feeRecipient)) {
		context.WithField("feeRecipient", feeRecipient).Panic("invalid market.feeRecipient")
	}

	adminAddresses := []domain.Address{}
	for _, a := range viper.GetStringSlice("admin.addresses") {
		adminAddresses = append(adminAddresses, domain.Address(a))
	}

	// construct repository, usecase and delivery
	hc := hc_usecase.New(hc_repo.New(r.q, redisCache))
	auth := auth_usecase.New(&auth_usecase.AuthUseCaseCfg{
		JwtSecret:          viper.GetString("auth.jwtSecret"),
		SigningMsgTemplate: viper.GetString("auth.signatureMsg"),
		AdminAddresses:     adminAddresses,
		Nonces:             nonceCache,
	})
	assetUC := asset_usecase.New(r.asset)
	paymentUC := payment_usecase.New(r.payment)
	market := listing_usecase.New(&listing_usecase.MarketUseCaseCfg{
		ListingRepo:  r.listing,
		SaleRepo:     r.sale,
		AssetRepo:    r.asset,
		PaymentRepo:  r.payment,
		Transactor:   r.tx,
		ListingFee:   listingFee,
		FeeRecipient: feeRecipient,
		Cache:        marketCache,
		Notifier:     notifier,
	})

	authMiddleware := auth_middleware.New(auth)

	hc_delivery.New(e, hc)
	auth_delivery.New(e, auth, httpCache)
	asset_delivery.New(e, assetUC, authMiddleware)
	payment_delivery.New(e, paymentUC, authMiddleware)
	listing_delivery.New(e, market, authMiddleware, httpCache)

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	goroutine.RecoverableGo(func() {
		if err := e.Start(viper.GetString("server.address")); err != nil && err != http.ErrServerClosed {
			log.Log().WithField("err", err).Error("shutting down the server")
		}
	}, goroutine.WithName("http server"))

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 10 seconds.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-quit
	log.Log().WithField("signal", sig).Info("received signal")
	ctx, cancel := ctx.WithTimeout(context, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Log().WithField("err", err).Error("shutting down the server")
	} else {
		log.Log().Info("shutdown server successfully")
	}
}
