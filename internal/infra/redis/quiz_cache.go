// Package redis provides cache and token-store implementations on Redis.
package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"quiz-portal/internal/app"
	"quiz-portal/internal/domain"
)

// QuizCache decorates a QuizContent source with Redis-cached snapshots so
// the hot submission path avoids repeated document-store reads. Snapshots
// are stored as JSON under quiz:{id}:snapshot and quiz:{id}:questions.
type QuizCache struct {
	client *redis.Client
	source app.QuizContent
	ttl    time.Duration
	sf     singleflight.Group
}

func NewQuizCache(client *redis.Client, source app.QuizContent, ttl time.Duration) *QuizCache {
	return &QuizCache{
		client: client,
		source: source,
		ttl:    ttl,
	}
}

func (c *QuizCache) GetQuiz(ctx context.Context, id string) (domain.Quiz, error) {
	key := "quiz:" + id + ":snapshot"
	if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var quiz domain.Quiz
		if err := json.Unmarshal(raw, &quiz); err == nil {
			return quiz, nil
		}
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Re-check in case another goroutine filled the cache.
		if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
			var quiz domain.Quiz
			if err := json.Unmarshal(raw, &quiz); err == nil {
				return quiz, nil
			}
		}
		quiz, err := c.source.GetQuiz(ctx, id)
		if err != nil {
			return domain.Quiz{}, err
		}
		c.store(ctx, key, quiz)
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return result.(domain.Quiz), nil
}

func (c *QuizCache) GetQuestionsByQuiz(ctx context.Context, quizID string) ([]domain.Question, error) {
	key := "quiz:" + quizID + ":questions"
	if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var questions []domain.Question
		if err := json.Unmarshal(raw, &questions); err == nil {
			return questions, nil
		}
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
			var questions []domain.Question
			if err := json.Unmarshal(raw, &questions); err == nil {
				return questions, nil
			}
		}
		questions, err := c.source.GetQuestionsByQuiz(ctx, quizID)
		if err != nil {
			return nil, err
		}
		c.store(ctx, key, questions)
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

// store is best-effort: a cache write failure never fails the read.
func (c *QuizCache) store(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, key, raw, c.ttlWithJitter()).Err()
}

// Invalidate drops cached snapshots after authoring changes.
func (c *QuizCache) Invalidate(ctx context.Context, quizID string) {
	_ = c.client.Del(ctx, "quiz:"+quizID+":snapshot", "quiz:"+quizID+":questions").Err()
}

func (c *QuizCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// up to 10% jitter to spread expirations; the global source is
	// safe for concurrent fills
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(rand.Int63n(jitterMax+1))
}
