package main

import (
	"encoding/json"
	"flag"
	"log" // 标准日志库，用于早期错误输出
	"path/filepath"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"github.com/Xushengqwer/go-common/core"
	"github.com/Xushengqwer/go-common/models/enums"
	"github.com/Xushengqwer/barter_search/config"
	internalKafka "github.com/Xushengqwer/barter_search/internal/core/kafka"
	"github.com/Xushengqwer/barter_search/internal/models"
	"go.uber.org/zap"
)

// 向本地 Kafka 灌入一批物品事件，用于开发联调：先发若干 upsert 事件铺底数据，
// 再发两条删除事件（其中一条指向不存在的物品，验证删除的幂等路径）。
func main() {
	// --- 0. 配置和基础设置 ---
	var configFile string
	defaultConfigPath := filepath.Join("..", "..", "config", "config.development.yaml")

	flag.StringVar(&configFile, "config", defaultConfigPath, "指定配置文件的路径 (相对于当前工作目录或绝对路径)")
	flag.Parse()

	if !filepath.IsAbs(configFile) {
		absPath, err := filepath.Abs(configFile)
		if err != nil {
			log.Fatalf("无法将配置文件路径 '%s' 转换为绝对路径: %v", configFile, err)
		}
		configFile = absPath
	}
	log.Printf("使用的配置文件: %s", configFile)

	// --- 1. 加载配置 ---
	var cfg config.BarterSearchConfig
	if err := core.LoadConfig(configFile, &cfg); err != nil {
		log.Fatalf("致命错误: 加载配置文件 '%s' 失败: %v", configFile, err)
	}
	log.Println("配置文件加载成功。")

	// --- 2. 初始化 Logger ---
	logger, loggerErr := core.NewZapLogger(cfg.ZapConfig)
	if loggerErr != nil {
		log.Fatalf("致命错误: 初始化 ZapLogger 失败: %v", loggerErr)
	}
	defer func() {
		logger.Info("正在同步所有日志条目...")
		if err := logger.Logger().Sync(); err != nil {
			log.Printf("警告: ZapLogger Sync 操作失败: %v\n", err)
		}
	}()
	logger.Info("物品 Seeder 的 Zap Logger 初始化成功。")

	// --- 3. 准备 Kafka 生产者 ---
	kafkaCfg := cfg.KafkaConfig
	if len(kafkaCfg.SubscribedTopics) < 2 {
		logger.Fatal("Kafka 配置错误：subscribedTopics 至少需要包含两个主题 (一个用于物品 upsert，一个用于删除)。")
	}

	upsertTopic := kafkaCfg.SubscribedTopics[0]
	deleteTopic := kafkaCfg.SubscribedTopics[1]

	logger.Info("物品 Seeder 将使用以下主题",
		zap.String("upsert 事件主题", upsertTopic),
		zap.String("删除事件主题", deleteTopic),
	)

	saramaConfig, err := internalKafka.ConfigureSarama(kafkaCfg, logger)
	if err != nil {
		logger.Fatal("配置 Sarama (Kafka 客户端库) 失败", zap.Error(err))
	}

	producer, err := sarama.NewSyncProducer(kafkaCfg.Brokers, saramaConfig)
	if err != nil {
		logger.Fatal("创建 Kafka 同步生产者 (SyncProducer) 失败", zap.Error(err))
	}
	defer func() {
		logger.Info("正在关闭 Kafka 同步生产者...")
		if err := producer.Close(); err != nil {
			logger.Error("关闭 Kafka 同步生产者时发生错误", zap.Error(err))
		} else {
			logger.Info("Kafka 同步生产者已成功关闭。")
		}
	}()
	logger.Info("Kafka 同步生产者 (SyncProducer) 初始化成功并已连接。", zap.Strings("Brokers地址", kafkaCfg.Brokers))

	// --- 4. 定义物品创建/更新的测试数据 ---
	now := time.Now().UTC()
	testItemUpsertEvents := []models.KafkaItemUpsertEvent{
		{
			EventID:       "seed-upsert-501",
			ID:            501,
			Title:         "二手山地自行车 捷安特 ATX",
			Description:   "骑了两年，变速顺畅，刹车片新换，适合通勤和轻度越野。希望换一个电烤箱或羽毛球拍。",
			Category:      "sports",
			Condition:     "good",
			Location:      "上海市 杨浦区",
			Coordinates:   &models.GeoPoint{Lat: 31.2993, Lon: 121.5199},
			Available:     true,
			Status:        enums.Status(1),
			OwnerID:       "user_cyclist_01",
			OwnerUsername: "骑行小王",
			OwnerAvatar:   "http://example.com/avatars/cyclist.png",
			CreatedAt:     now.Add(-72 * time.Hour),
		},
		{
			EventID:       "seed-upsert-502",
			ID:            502,
			Title:         "Kindle Paperwhite 4 电子书阅读器",
			Description:   "8G 版本无锁屏广告，屏幕无划痕，带原装保护套。想换一套落地灯或绿植。",
			Category:      "electronics",
			Condition:     "like_new",
			Location:      "上海市 浦东新区",
			Coordinates:   &models.GeoPoint{Lat: 31.2214, Lon: 121.5441},
			Available:     true,
			Status:        enums.Status(1),
			OwnerID:       "user_reader_02",
			OwnerUsername: "夜读者",
			OwnerAvatar:   "http://example.com/avatars/reader.png",
			CreatedAt:     now.Add(-48 * time.Hour),
		},
		{
			EventID:       "seed-upsert-503",
			ID:            503,
			Title:         "实木小书架 三层",
			Description:   "搬家带不走，八成新，有轻微使用痕迹。自提优先，可换厨房小家电。",
			Category:      "furniture",
			Condition:     "fair",
			Location:      "北京市 海淀区",
			Coordinates:   nil, // 物主未填写坐标，验证无坐标文档的索引路径
			Available:     true,
			Status:        enums.Status(1),
			OwnerID:       "user_mover_03",
			OwnerUsername: "搬家达人",
			OwnerAvatar:   "http://example.com/avatars/mover.png",
			CreatedAt:     now.Add(-24 * time.Hour),
		},
		{
			EventID:       "seed-upsert-504",
			ID:            504,
			Title:         "全新未拆封乐高积木 城市系列",
			Description:   "抽奖中的重复奖品，盒装完好。想换桌游或模型。",
			Category:      "toys",
			Condition:     "new",
			Location:      "上海市 静安区",
			Coordinates:   &models.GeoPoint{Lat: 31.2286, Lon: 121.4587},
			Available:     false, // 已下架，用于验证可用性闸门
			Status:        enums.Status(1),
			OwnerID:       "user_lucky_04",
			OwnerUsername: "锦鲤本鲤",
			OwnerAvatar:   "http://example.com/avatars/lucky.png",
			CreatedAt:     now.Add(-12 * time.Hour),
		},
	}

	// --- 5. 发送物品创建/更新事件到 Kafka ---
	logger.Info("开始发送物品 upsert 事件到 Kafka...", zap.Int("消息数量", len(testItemUpsertEvents)))
	for _, itemEvent := range testItemUpsertEvents {
		payloadBytes, err := json.Marshal(itemEvent)
		if err != nil {
			logger.Error("序列化 KafkaItemUpsertEvent 为 JSON 时发生错误",
				zap.Uint64("物品ID", itemEvent.ID),
				zap.Error(err))
			continue
		}
		eventKey := strconv.FormatUint(itemEvent.ID, 10)
		msg := &sarama.ProducerMessage{
			Topic: upsertTopic,
			Key:   sarama.StringEncoder(eventKey),
			Value: sarama.ByteEncoder(payloadBytes),
		}
		logger.Debug("准备发送的消息详情 (ItemUpsert)",
			zap.String("消息键(Key)", eventKey),
			zap.ByteString("消息体片段(Value snippet)", payloadBytes[:min(100, len(payloadBytes))]))
		partition, offset, err := producer.SendMessage(msg)
		if err != nil {
			logger.Error("发送物品 upsert 事件到 Kafka 失败",
				zap.String("目标主题", upsertTopic),
				zap.Uint64("物品ID", itemEvent.ID),
				zap.Error(err),
			)
		} else {
			logger.Info("物品 upsert 事件成功发送到 Kafka",
				zap.String("目标主题", upsertTopic),
				zap.Uint64("物品ID", itemEvent.ID),
				zap.Int32("分区(Partition)", partition),
				zap.Int64("偏移量(Offset)", offset),
				zap.Time("发送时间戳", time.Now()),
			)
		}
		time.Sleep(100 * time.Millisecond)
	}
	logger.Info("所有物品 upsert 事件已发送（或已尝试发送）到 Kafka。")

	// --- 6. 定义物品删除的测试数据 ---
	testItemDeleteEvents := []models.KafkaItemDeleteEvent{
		{
			EventID:   "seed-delete-504",
			Operation: "delete",
			ItemID:    504, // 删除刚创建的物品之一
		},
		{
			EventID:   "seed-delete-105",
			Operation: "delete",
			ItemID:    105, // 不存在的物品ID，验证删除不存在文档的幂等路径
		},
	}

	// --- 7. 发送物品删除事件到 Kafka ---
	logger.Info("开始发送物品删除事件到 Kafka...", zap.Int("消息数量", len(testItemDeleteEvents)))
	for _, deleteEvent := range testItemDeleteEvents {
		payloadBytes, err := json.Marshal(deleteEvent)
		if err != nil {
			logger.Error("序列化 KafkaItemDeleteEvent 为 JSON 时发生错误",
				zap.Uint64("物品ID", deleteEvent.ItemID),
				zap.Error(err))
			continue
		}
		eventKey := strconv.FormatUint(deleteEvent.ItemID, 10)
		msg := &sarama.ProducerMessage{
			Topic: deleteTopic,
			Key:   sarama.StringEncoder(eventKey),
			Value: sarama.ByteEncoder(payloadBytes),
		}
		logger.Debug("准备发送的消息详情 (ItemDelete)",
			zap.String("消息键(Key)", eventKey),
			zap.ByteString("消息体片段(Value snippet)", payloadBytes[:min(100, len(payloadBytes))]))
		partition, offset, err := producer.SendMessage(msg)
		if err != nil {
			logger.Error("发送物品删除事件到 Kafka 失败",
				zap.String("目标主题", deleteTopic),
				zap.Uint64("物品ID", deleteEvent.ItemID),
				zap.Error(err),
			)
		} else {
			logger.Info("物品删除事件成功发送到 Kafka",
				zap.String("目标主题", deleteTopic),
				zap.Uint64("物品ID", deleteEvent.ItemID),
				zap.Int32("分区(Partition)", partition),
				zap.Int64("偏移量(Offset)", offset),
				zap.Time("发送时间戳", time.Now()),
			)
		}
		time.Sleep(100 * time.Millisecond)
	}
	logger.Info("所有物品删除事件已发送（或已尝试发送）到 Kafka。")

	logger.Info("所有测试数据均已处理完毕。")
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
