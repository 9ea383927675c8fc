package services

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	appConfig "github.com/pawfinder/pawfinder-api/config"
)

// SESEmailService sends transactional email through Amazon SES
type SESEmailService struct {
	client *sesv2.Client
	from   string
}

var emailServiceInstance EmailSender

// InitEmailService initializes the SES email service with AWS credentials
func InitEmailService() (EmailSender, error) {
	cfg := appConfig.GetConfig()

	awsConfig, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(cfg.AWSRegion),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	emailServiceInstance = &SESEmailService{
		client: sesv2.NewFromConfig(awsConfig),
		from:   cfg.EmailFromAddress,
	}
	return emailServiceInstance, nil
}

// GetEmailService returns the initialized email service instance
func GetEmailService() EmailSender {
	return emailServiceInstance
}

// SetEmailService replaces the email service instance (used by tests)
func SetEmailService(sender EmailSender) {
	emailServiceInstance = sender
}

// SendEmail sends a plain-text email to a single recipient
func (s *SESEmailService) SendEmail(to, subject, body string) error {
	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.from),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body)},
				},
			},
		},
	}

	if _, err := s.client.SendEmail(context.TODO(), input); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
