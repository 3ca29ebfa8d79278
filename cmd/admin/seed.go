package main

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"noticeboard/backend/internal/models"
	"noticeboard/backend/internal/storage"

	"github.com/jaswdr/faker"
)

var f = faker.New()

func genAuthors(ctx context.Context, s storage.Storage, n int) ([]*models.Profile, error) {
	authors := make([]*models.Profile, 0, n)
	for i := 0; i < n; i++ {
		p := &models.Profile{
			FullName: f.Person().Name(),
			Email:    strings.ToLower(f.Person().FirstName()) + "@college.test",
		}
		if err := s.CreateProfile(ctx, p); err != nil {
			return nil, fmt.Errorf("can't add profile: %w", err)
		}
		authors = append(authors, p)
	}
	return authors, nil
}

func genText() string {
	return f.Lorem().Paragraph(rand.Intn(2) + 1)
}

func genQuestion() string {
	return strings.TrimSuffix(f.Lorem().Sentence(rand.Intn(4)+4), ".") + "?"
}

func genOptions() []string {
	n := rand.Intn(3) + 2
	options := make([]string, 0, n)
	for i := 0; i < n; i++ {
		options = append(options, strings.Join(f.Lorem().Words(rand.Intn(2)+1), " "))
	}
	return options
}

func genSubmission() *models.AnonymousSubmission {
	urgencies := []models.Urgency{models.UrgencyLow, models.UrgencyMedium, models.UrgencyHigh}
	return &models.AnonymousSubmission{
		Category: models.Categories[rand.Intn(len(models.Categories))],
		Urgency:  urgencies[rand.Intn(len(urgencies))],
		Content:  genText(),
	}
}

// seed creates a few authors, n posts (every third one a poll with votes) and some submissions.
func seed(ctx context.Context, s storage.Storage, n int) error {
	authors, err := genAuthors(ctx, s, 5)
	if err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		author := authors[rand.Intn(len(authors))]
		post := &models.Post{AuthorID: author.ID, Content: genText(), Type: models.PostQuery}
		if i%3 == 2 {
			q := genQuestion()
			post.Type = models.PostPoll
			post.PollQuestion = &q
		}
		if err := s.InsertPost(ctx, post); err != nil {
			return fmt.Errorf("can't add post: %w", err)
		}

		if post.Type == models.PostPoll {
			options, err := s.InsertPollOptions(ctx, post.ID, author.ID, genOptions())
			if err != nil {
				return fmt.Errorf("can't add poll options: %w", err)
			}
			for _, voter := range authors {
				opt := options[rand.Intn(len(options))]
				if err := s.CastVote(ctx, post.ID, opt.ID, voter.ID, false); err != nil {
					return fmt.Errorf("can't vote: %w", err)
				}
			}
		}

		for _, fan := range authors {
			if f.Bool() {
				if err := s.Like(ctx, post.ID, fan.ID); err != nil {
					return fmt.Errorf("can't like: %w", err)
				}
			}
		}
	}

	for i := 0; i < n/2+1; i++ {
		if err := s.InsertSubmission(ctx, genSubmission()); err != nil {
			return fmt.Errorf("can't add submission: %w", err)
		}
	}
	return nil
}
