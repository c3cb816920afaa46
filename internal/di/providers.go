package di

import (
	"context"
	"fmt"
	"time"

	"BullBearPK/internal/domain/repository"
	"BullBearPK/internal/handler/api"
	mid "BullBearPK/internal/middleware"
	internalrepo "BullBearPK/internal/repository"
	icache "BullBearPK/internal/service/cache"
	"BullBearPK/internal/service/newswire"
	"BullBearPK/internal/service/psxfeed"
	"BullBearPK/internal/service/ratelimit"
	"BullBearPK/internal/service/scheduler"
	"BullBearPK/internal/services/portfolio"
	"BullBearPK/internal/services/recommend"
	"BullBearPK/internal/services/risk"
	"BullBearPK/internal/services/sentiment"
	"BullBearPK/internal/services/technical"
	"BullBearPK/internal/usecase"
	pkgcache "BullBearPK/pkg/cache"
	pkgch "BullBearPK/pkg/clickhouse"
	"BullBearPK/pkg/config"
	pkghttp "BullBearPK/pkg/http"
	pkgkafka "BullBearPK/pkg/kafka"
	"BullBearPK/pkg/logger"
	"BullBearPK/pkg/metrics"
	"BullBearPK/pkg/queue"
	"BullBearPK/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	level := cfg.Logging.Level
	if level == "" {
		level = "info"
	}
	format := cfg.Logging.Format
	if format == "" {
		format = "console"
	}
	return logger.New(&logger.Config{Level: level, Format: format, Output: "stdout"})
}

// ProvideClickHouseClient creates a ClickHouse client and ensures schemas.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideRedisCache creates the shared Redis client.
func ProvideRedisCache(cfg *config.Config) (*pkgcache.RedisCache, error) {
	prefix := cfg.Redis.Prefix
	if prefix == "" {
		prefix = "bullbearpk"
	}
	c, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(cfg.Redis.Host),
		pkgcache.WithRedisPort(cfg.Redis.Port),
		pkgcache.WithRedisPassword(cfg.Redis.Password),
		pkgcache.WithRedisDB(cfg.Redis.DB),
		pkgcache.WithRedisPool(10, 2, 30*time.Second),
		pkgcache.WithRedisPrefix(prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return c, nil
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideMarketStore creates the ClickHouse market store and its schema.
func ProvideMarketStore(ch *pkgch.Client, l *logger.Logger) (*internalrepo.CHMarketStore, error) {
	store := internalrepo.NewCHMarketStore(ch)
	store.SetLogger(l)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// ProvideNewsStore creates the ClickHouse news store and its schema.
func ProvideNewsStore(ch *pkgch.Client) (repository.NewsStore, error) {
	store := internalrepo.NewCHNewsStore(ch)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// ProvideSubmissionStore creates the ClickHouse submission store and schema.
func ProvideSubmissionStore(ch *pkgch.Client) (repository.SubmissionStore, error) {
	store := internalrepo.NewCHSubmissionStore(ch)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// ProvidePortfolioStore creates the Redis-backed portfolio store.
func ProvidePortfolioStore(c *pkgcache.RedisCache) repository.PortfolioStore {
	return internalrepo.NewRedisPortfolioStore(c)
}

// ProvideSentimentCache creates the sentiment memo. Reads during a run fan
// out across every scraped symbol, so a memory layer fronts Redis.
func ProvideSentimentCache(c *pkgcache.RedisCache, l *logger.Logger) repository.SentimentCache {
	layered := pkgcache.NewLayeredCache(c, pkgcache.WithLayeredMemorySize(512))
	return internalrepo.NewRedisSentimentCache(layered, l)
}

// ProvideRecordPublisher creates the Kafka record relay.
func ProvideRecordPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.RecordPublisher {
	return internalrepo.NewKafkaRecordPublisher(producer, cfg.Kafka.RecordsTopic)
}

// ProvideRunPublisher creates the recommendation event publisher.
func ProvideRunPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	return internalrepo.NewKafkaRunPublisher(producer, cfg.Kafka.RunsTopic)
}

// ProvideFeedStream creates the exchange WebSocket stream.
func ProvideFeedStream(cfg *config.Config, l *logger.Logger) repository.MarketStream {
	return psxfeed.New(
		cfg.Feed.APIKey,
		cfg.Feed.WebSocketURL,
		cfg.Feed.ReconnectDelay,
		cfg.Feed.PingInterval,
		l,
	)
}

// ProvideNewsSource creates the rate-limited, cached news client.
func ProvideNewsSource(cfg *config.Config, l *logger.Logger) repository.NewsSource {
	timeout := cfg.News.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	httpClient := pkghttp.NewClient(pkghttp.WithTimeout(timeout))
	return newswire.New(httpClient, cfg.News.BaseURL, cfg.News.APIKey, ratelimit.New(), icache.NewTTLCache(), l)
}

// ProvidePipeline wires the stores and stage services into the orchestrator.
func ProvidePipeline(
	market *internalrepo.CHMarketStore,
	news repository.NewsSource,
	submissions repository.SubmissionStore,
	portfolioStore repository.PortfolioStore,
	publisher repository.Publisher,
	m repository.Metrics,
	sentiments repository.SentimentCache,
	l *logger.Logger,
) *usecase.Pipeline {
	return usecase.NewPipeline(usecase.PipelineDeps{
		Market:      market,
		News:        news,
		Submissions: submissions,
		Portfolio:   portfolioStore,
		Publisher:   publisher,
		Metrics:     m,
		Sentiments:  sentiments,

		Technical:   technical.NewEngine(l),
		Sentiment:   sentiment.NewAnalyzer(l),
		Risk:        risk.NewProfiler(l),
		Reconciler:  portfolio.NewReconciler(l),
		Synthesizer: recommend.NewSynthesizer(l),
		Differ:      recommend.NewDiffer(),

		Log: l,
	})
}

// ProvideDecisionLedger creates the decision handler.
func ProvideDecisionLedger(portfolioStore repository.PortfolioStore, market *internalrepo.CHMarketStore, l *logger.Logger) *usecase.DecisionLedger {
	return usecase.NewDecisionLedger(portfolioStore, market, l)
}

// ProvideMarketHistory creates the records read usecase.
func ProvideMarketHistory(market *internalrepo.CHMarketStore) *usecase.MarketHistoryUseCase {
	return usecase.NewMarketHistoryUseCase(market)
}

// ProvideRecordProcessor creates the backend router for ingested records.
func ProvideRecordProcessor(
	pub repository.RecordPublisher,
	store *internalrepo.CHMarketStore,
	m repository.Metrics,
	cfg *config.Config,
) *usecase.RecordProcessor {
	return usecase.NewRecordProcessor(pub, store, m, cfg.Backend.Type)
}

// ProvideRecordCollector creates the feed consumer with its ingest pipeline.
func ProvideRecordCollector(
	stream repository.MarketStream,
	processor *usecase.RecordProcessor,
	m repository.Metrics,
	cfg *config.Config,
) *usecase.RecordCollector {
	opts := []mid.PipelineOption{}
	if cfg.Feed.MaxRPS > 0 {
		opts = append(opts, mid.WithMaxRPS(cfg.Feed.MaxRPS))
	}
	if cfg.Feed.BufferSize > 0 {
		opts = append(opts, mid.WithBufferSize(cfg.Feed.BufferSize))
	}
	pipe := mid.NewIngestPipeline(processor, m, opts...)
	return usecase.NewRecordCollector(stream, processor, m, pipe, cfg.Feed.Symbols)
}

// ProvideKafkaRecordsHandler registers the consumer-side ClickHouse writer.
func ProvideKafkaRecordsHandler(store *internalrepo.CHMarketStore, m repository.Metrics, cfg *config.Config) *usecase.KafkaRecordsHandler {
	return usecase.NewKafkaRecordsHandler(cfg.Kafka.RecordsTopic, store, m)
}

// ProvideJobQueue creates the Redis job queue with the news refresh job.
func ProvideJobQueue(
	l *logger.Logger,
	c *pkgcache.RedisCache,
	news repository.NewsSource,
	newsStore repository.NewsStore,
) *queue.RedisQueue {
	job := usecase.NewNewsRefreshJob(news, newsStore, l)
	return queue.NewRedisConsumer(l, &queue.QueueConfig{
		Workers:    2,
		QueueSize:  256,
		RetryLimit: 3,
		RetryDelay: 30 * time.Second,
	}, c.Client(), []queue.Job{job}, queue.WithKeyPrefix("bullbearpk"))
}

// ProvideScheduler creates the cron scheduler over the job queue.
func ProvideScheduler(q *queue.RedisQueue, cfg *config.Config, l *logger.Logger) *scheduler.Scheduler {
	return scheduler.New(q, cfg.Feed.Symbols, l)
}

// ProvideHTTPHandler creates the Echo API handler. The market view cache
// lives in Redis so replicas share one materialization.
func ProvideHTTPHandler(
	l *logger.Logger,
	pipeline *usecase.Pipeline,
	decisions *usecase.DecisionLedger,
	market *internalrepo.CHMarketStore,
	records *usecase.MarketHistoryUseCase,
	submissions repository.SubmissionStore,
	c *pkgcache.RedisCache,
) *api.RecommendationsHandler {
	h := api.NewRecommendationsHandler(l, pipeline, decisions, market, records, submissions)
	h.SetCache(icache.NewRedisBytes(c.Client()))
	return h
}

// kafkaLogSink adapts the producer to the log collector's publisher.
type kafkaLogSink struct {
	producer *pkgkafka.Producer
}

func (s kafkaLogSink) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return s.producer.Publish(ctx, topic, nil, payload)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *logger.Logger,
	producer *pkgkafka.Producer,
	collector *usecase.RecordCollector,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaRecordsHandler,
	chClient *pkgch.Client,
	redisCache *pkgcache.RedisCache,
	jobQueue *queue.RedisQueue,
	sched *scheduler.Scheduler,
	httpHandler *api.RecommendationsHandler,
	m repository.Metrics,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NewTimingHook(m))
	}
	if cfg.Kafka.LogsTopic != "" && producer != nil {
		l.AddCollector(&logger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          cfg.Kafka.LogsTopic,
			Publisher:      kafkaLogSink{producer: producer},
		})
	}
	app := server.New(cfg, l, collector, consumer, kh, chClient, redisCache, jobQueue, sched)
	app.SetHTTPHandler(httpHandler)
	if collector != nil {
		app.RecordProc = collector.Processor()
	}
	return app
}
