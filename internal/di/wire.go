//go:build wireinject
// +build wireinject

package di

import (
	"BullBearPK/pkg/config"
	"BullBearPK/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideRedisCache,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,

		// Stores and publishers
		ProvideMarketStore,
		ProvideNewsStore,
		ProvideSubmissionStore,
		ProvidePortfolioStore,
		ProvideSentimentCache,
		ProvideRecordPublisher,
		ProvideRunPublisher,

		// External services
		ProvideFeedStream,
		ProvideNewsSource,

		// Use cases
		ProvidePipeline,
		ProvideDecisionLedger,
		ProvideMarketHistory,
		ProvideRecordProcessor,
		ProvideRecordCollector,
		ProvideKafkaRecordsHandler,

		// Background work
		ProvideJobQueue,
		ProvideScheduler,

		// HTTP
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
