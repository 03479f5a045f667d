package social

import (
	"context"
	"fmt"
	"os"

	"github.com/Davincible/goinsta/v3"
	"go.opentelemetry.io/otel/trace"
)

// InstagramClient wraps goinsta with the two calls the bot needs.
type InstagramClient struct {
	username string
	password string
	insta    *goinsta.Instagram
	tracer   trace.Tracer
}

func NewInstagramClient(tracer trace.Tracer, username, password string) *InstagramClient {
	return &InstagramClient{username: username, password: password, tracer: tracer}
}

func (c *InstagramClient) Login(ctx context.Context) error {
	_, span := c.tracer.Start(ctx, "instagram.login")
	defer span.End()

	insta := goinsta.New(c.username, c.password)
	if err := insta.Login(); err != nil {
		return err
	}
	c.insta = insta
	return nil
}

func (c *InstagramClient) UploadPhoto(ctx context.Context, path, caption string) error {
	_, span := c.tracer.Start(ctx, "instagram.upload-photo")
	defer span.End()

	if c.insta == nil {
		return fmt.Errorf("not logged in")
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = c.insta.Upload(&goinsta.UploadOptions{
		File:    f,
		Caption: caption,
	})
	return err
}
