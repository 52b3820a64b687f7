package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atanasster/pad-champions/internal/client"
	"github.com/atanasster/pad-champions/internal/dto"
)

// Live update kinds
const (
	LiveKindCreated = "created"
	LiveKindUpdated = "updated"
	LiveKindDeleted = "deleted"
)

const liveChannelPrefix = "live:"

// LivePublisher pushes change notices so open views can re-fetch
type LivePublisher interface {
	Publish(ctx context.Context, topic, kind, id string)
}

type livePublisherImpl struct {
	broker client.LiveBroker
	logger *zap.Logger
}

// NewLivePublisher creates a publisher. A nil broker yields a no-op publisher.
func NewLivePublisher(broker client.LiveBroker, logger *zap.Logger) LivePublisher {
	if broker == nil {
		return noopLivePublisher{}
	}
	return &livePublisherImpl{broker: broker, logger: logger}
}

// Publish is best effort; failures are logged.
func (p *livePublisherImpl) Publish(ctx context.Context, topic, kind, id string) {
	payload, err := json.Marshal(dto.LiveMessage{Topic: topic, Kind: kind, ID: id})
	if err != nil {
		p.logger.Warn("Failed to encode live message", zap.String("topic", topic), zap.Error(err))
		return
	}
	if err := p.broker.Publish(ctx, LiveChannel(topic), payload); err != nil {
		p.logger.Warn("Failed to publish live message", zap.String("topic", topic), zap.Error(err))
	}
}

type noopLivePublisher struct{}

func (noopLivePublisher) Publish(context.Context, string, string, string) {}

// PostTopic names the live topic of a forum thread
func PostTopic(postID uuid.UUID) string {
	return "post:" + postID.String()
}

// FolderTopic names the live topic of a folder listing; nil is the root
func FolderTopic(folderID *uuid.UUID) string {
	if folderID == nil {
		return "folder:root"
	}
	return "folder:" + folderID.String()
}

// LiveChannel maps a topic onto its broker channel
func LiveChannel(topic string) string {
	return liveChannelPrefix + topic
}

// ValidLiveTopic reports whether topic names a post or folder
func ValidLiveTopic(topic string) bool {
	kind, id, ok := strings.Cut(topic, ":")
	if !ok {
		return false
	}
	switch kind {
	case "post":
		_, err := uuid.Parse(id)
		return err == nil
	case "folder":
		if id == "root" {
			return true
		}
		_, err := uuid.Parse(id)
		return err == nil
	}
	return false
}
