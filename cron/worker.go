package cron

import (
	"context"
	"log"
	"time"

	"wsid/config"
	commentRepo "wsid/database/repository/comment"
	postRepo "wsid/database/repository/post"
	voteRepo "wsid/database/repository/vote"
	"wsid/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeReconcileCounters = "counters:reconcile"

// reconcileInterval is how often the denormalized counters are re-derived
// from their source collections.
const reconcileInterval = time.Hour

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// InitCounterWorker runs the async counter-reconciliation worker in
// background and enqueues the periodic job.
func InitCounterWorker(posts postRepo.PostRepository, votes voteRepo.VoteRepository, comments commentRepo.CommentRepository) {
	srv := asynq.NewServer(
		redisOpts(),
		asynq.Config{
			Concurrency: 2,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeReconcileCounters, handleReconcileTask(posts, votes, comments))

	go func() {
		log.Println("[CounterWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[CounterWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[CounterWorker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()

	go enqueuePeriodically()
}

// enqueuePeriodically submits the reconcile task once at startup and then on
// every tick.
func enqueuePeriodically() {
	client := asynq.NewClient(redisOpts())
	defer client.Close()

	enqueue := func() {
		task := asynq.NewTask(TypeReconcileCounters, nil)
		if _, err := client.Enqueue(task, asynq.MaxRetry(1)); err != nil {
			utils.GetLogger().Warn("failed to enqueue counter reconcile task", zap.Error(err))
		}
	}

	enqueue()
	ticker := time.NewTicker(reconcileInterval)
	defer ticker.Stop()
	for range ticker.C {
		enqueue()
	}
}

// handleReconcileTask re-derives every denormalized counter from its source
// collection: option vote counts from votes, comment reaction counts from
// the membership arrays.
func handleReconcileTask(posts postRepo.PostRepository, votes voteRepo.VoteRepository, comments commentRepo.CommentRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		logger := utils.GetLogger()

		options, err := posts.AllOptions()
		if err != nil {
			return err
		}
		fixedOptions := 0
		for _, opt := range options {
			actual, err := votes.CountByOption(opt.ID)
			if err != nil {
				return err
			}
			if actual == opt.VotesCount {
				continue
			}
			if err := posts.SetOptionFields(opt.ID, map[string]interface{}{"votesCount": actual}); err != nil {
				return err
			}
			fixedOptions++
		}

		all, err := comments.All()
		if err != nil {
			return err
		}
		fixedComments := 0
		for _, c := range all {
			likes, dislikes := int64(len(c.Likes)), int64(len(c.Dislikes))
			if likes == c.LikesCount && dislikes == c.DislikesCount {
				continue
			}
			if err := comments.SetFields(c.ID, map[string]interface{}{
				"likesCount":    likes,
				"dislikesCount": dislikes,
			}); err != nil {
				return err
			}
			fixedComments++
		}

		if fixedOptions > 0 || fixedComments > 0 {
			logger.Info("reconciled counters",
				zap.Int("options", fixedOptions),
				zap.Int("comments", fixedComments))
		}
		return nil
	}
}
