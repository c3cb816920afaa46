// Code generated by Wire. DO NOT EDIT.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package di

import (
	"BullBearPK/pkg/config"
	"BullBearPK/pkg/server"
)

// Injectors from wire.go:

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, err
	}
	producer, err := ProvideKafkaProducer(cfg)
	if err != nil {
		return nil, err
	}
	marketStream := ProvideFeedStream(cfg, logger)
	recordPublisher := ProvideRecordPublisher(producer, cfg)
	client, err := ProvideClickHouseClient(cfg)
	if err != nil {
		return nil, err
	}
	chMarketStore, err := ProvideMarketStore(client, logger)
	if err != nil {
		return nil, err
	}
	metrics := ProvideMetrics()
	recordProcessor := ProvideRecordProcessor(recordPublisher, chMarketStore, metrics, cfg)
	recordCollector := ProvideRecordCollector(marketStream, recordProcessor, metrics, cfg)
	consumer, err := ProvideKafkaConsumer(cfg)
	if err != nil {
		return nil, err
	}
	kafkaRecordsHandler := ProvideKafkaRecordsHandler(chMarketStore, metrics, cfg)
	redisCache, err := ProvideRedisCache(cfg)
	if err != nil {
		return nil, err
	}
	newsSource := ProvideNewsSource(cfg, logger)
	newsStore, err := ProvideNewsStore(client)
	if err != nil {
		return nil, err
	}
	redisQueue := ProvideJobQueue(logger, redisCache, newsSource, newsStore)
	scheduler := ProvideScheduler(redisQueue, cfg, logger)
	submissionStore, err := ProvideSubmissionStore(client)
	if err != nil {
		return nil, err
	}
	portfolioStore := ProvidePortfolioStore(redisCache)
	publisher := ProvideRunPublisher(producer, cfg)
	sentimentCache := ProvideSentimentCache(redisCache, logger)
	pipeline := ProvidePipeline(chMarketStore, newsSource, submissionStore, portfolioStore, publisher, metrics, sentimentCache, logger)
	decisionLedger := ProvideDecisionLedger(portfolioStore, chMarketStore, logger)
	marketHistoryUseCase := ProvideMarketHistory(chMarketStore)
	recommendationsHandler := ProvideHTTPHandler(logger, pipeline, decisionLedger, chMarketStore, marketHistoryUseCase, submissionStore, redisCache)
	app := ProvideApp(cfg, logger, producer, recordCollector, consumer, kafkaRecordsHandler, client, redisCache, redisQueue, scheduler, recommendationsHandler, metrics)
	return app, nil
}
