package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/umerjamal2011-design/leominster-fish-bar/internal/config"
	"github.com/umerjamal2011-design/leominster-fish-bar/internal/notify"
)

// changeFeed bundles the publisher and the two consumers of order changes.
type changeFeed struct {
	publisher notify.Publisher
	board     notify.Subscriber
	cleaner   notify.Subscriber
	closers   []func() error
}

func (f *changeFeed) Close() error {
	var errs []error
	for i := len(f.closers) - 1; i >= 0; i-- {
		errs = append(errs, f.closers[i]())
	}
	return errors.Join(errs...)
}

func openChangeFeed(cfg *config.Config) (*changeFeed, error) {
	f := &changeFeed{}

	switch cfg.NotifyBroker {
	case config.BrokerKafka:
		pub := notify.NewKafkaPublisher(cfg.KafkaBrokers...)
		// Every instance keeps its own board, so each needs every event.
		board := notify.NewKafkaSubscriber("storefront-board-"+cfg.InstanceID, cfg.KafkaBrokers...)
		cleaner := notify.NewKafkaSubscriber("storefront-cart-cleaner", cfg.KafkaBrokers...)
		f.publisher, f.board, f.cleaner = pub, board, cleaner
		f.closers = append(f.closers, pub.Close, board.Close, cleaner.Close)

	case config.BrokerRabbitMQ:
		conn, err := notify.DialRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			return nil, err
		}
		f.closers = append(f.closers, conn.Close)

		pub, err := notify.NewRabbitPublisher(conn)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("rabbitmq publisher: %w", err)
		}
		f.closers = append(f.closers, pub.Close)

		board, err := notify.NewRabbitSubscriber(conn)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("rabbitmq board subscriber: %w", err)
		}
		f.closers = append(f.closers, board.Close)

		cleaner, err := notify.NewRabbitSubscriber(conn)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("rabbitmq cleaner subscriber: %w", err)
		}
		f.closers = append(f.closers, cleaner.Close)
		f.publisher, f.board, f.cleaner = pub, board, cleaner

	case config.BrokerMemory:
		hub := notify.NewHub()
		f.publisher, f.board, f.cleaner = hub, hub.Subscriber(), hub.Subscriber()
		f.closers = append(f.closers, hub.Close)
	}

	slog.Info("change feed ready", "broker", cfg.NotifyBroker)
	return f, nil
}
