package notifications

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/twilio/twilio-go"
	twilioclient "github.com/twilio/twilio-go/client"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
	"gopkg.in/gomail.v2"
)

// Notifier delivers one message to one contact. Callers only depend on the
// success/failure outcome; delivery failures are a UX problem, never a
// correctness problem, so nothing upstream rolls back when a send fails.
type Notifier interface {
	SendEmail(to, subject, html string) error
	SendSMS(to, body string) error
}

// Service is the production Notifier: SMTP email plus Twilio SMS.
type Service struct {
	smtpHost    string
	smtpPort    int
	emailUser   string
	emailPass   string
	twilioPhone string
	twilio      *twilio.RestClient
}

// NewService builds a Notifier from the environment. Either channel may be
// left unconfigured; sends on an unconfigured channel fail and are counted
// by the caller like any other delivery failure.
func NewService() *Service {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file. Using environment variables directly.")
	}

	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	s := &Service{
		smtpHost:    os.Getenv("SMTP_HOST"),
		smtpPort:    port,
		emailUser:   os.Getenv("EMAIL_USER"),
		emailPass:   os.Getenv("EMAIL_PASS"),
		twilioPhone: os.Getenv("TWILIO_PHONE_NUMBER"),
	}

	sid := os.Getenv("TWILIO_ACCOUNT_SID")
	token := os.Getenv("TWILIO_AUTH_TOKEN")
	if sid != "" && token != "" {
		// A slow provider must not stall a booking request indefinitely.
		custom := &twilioclient.Client{
			Credentials: twilioclient.NewCredentials(sid, token),
		}
		custom.SetTimeout(15 * time.Second)
		s.twilio = twilio.NewRestClientWithParams(twilio.ClientParams{Client: custom})
	}
	return s
}

func (s *Service) SendEmail(to, subject, html string) error {
	if s.smtpHost == "" {
		return fmt.Errorf("smtp is not configured")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.emailUser)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)

	d := gomail.NewDialer(s.smtpHost, s.smtpPort, s.emailUser, s.emailPass)
	return d.DialAndSend(m)
}

func (s *Service) SendSMS(to, body string) error {
	if s.twilio == nil || s.twilioPhone == "" {
		return fmt.Errorf("twilio is not configured")
	}

	params := &twilioapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.twilioPhone)
	params.SetBody(body)

	_, err := s.twilio.Api.CreateMessage(params)
	return err
}
