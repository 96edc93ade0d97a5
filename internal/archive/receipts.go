package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/pkg/logging"
)

// S3API é o subconjunto do cliente S3 usado pelo Store.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Store guarda o comprovante de cada agendamento finalizado.
// Sem bucket configurado todas as operações são no-op.
type Store struct {
	bucket   string
	s3Client S3API
	log      *logging.Logger
}

func NewStore(s3Client S3API, bucket string, log *logging.Logger) *Store {
	return &Store{bucket: bucket, s3Client: s3Client, log: log}
}

// NewS3Client monta o cliente com credenciais estáticas; endpoint vazio usa a AWS.
func NewS3Client(region, accessKey, secretKey, endpoint string) *s3.Client {
	opts := s3.Options{Region: region}
	if accessKey != "" {
		opts.Credentials = credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")
	}
	if endpoint != "" {
		opts.BaseEndpoint = aws.String(endpoint)
		opts.UsePathStyle = true
	}
	return s3.New(opts)
}

func (s *Store) Enabled() bool {
	return s != nil && s.bucket != "" && s.s3Client != nil
}

type ReceiptLine struct {
	ServiceID          uuid.UUID       `json:"service_id"`
	ServiceName        string          `json:"service_name,omitempty"`
	NetServiceValue    decimal.Decimal `json:"net_service_value"`
	PaymentFee         decimal.Decimal `json:"payment_fee"`
	SalonProfit        decimal.Decimal `json:"salon_profit"`
	CommissionRate     decimal.Decimal `json:"commission_rate"`
	DiscountPaymentFee bool            `json:"discount_payment_fee"`
}

type Receipt struct {
	AppointmentID   uuid.UUID       `json:"appointment_id"`
	ProfessionalID  uuid.UUID       `json:"professional_id"`
	ClientID        *uuid.UUID      `json:"client_id,omitempty"`
	Date            string          `json:"date"`
	Time            string          `json:"time"`
	PaymentMethodID *uuid.UUID      `json:"payment_method_id,omitempty"`
	Lines           []ReceiptLine   `json:"lines"`
	TotalFees       decimal.Decimal `json:"total_fees"`
	TotalProfit     decimal.Decimal `json:"total_salon_profit"`
	FinalizedAt     time.Time       `json:"finalized_at"`
}

func decimalOf(v *float64) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return decimal.NewFromFloat(*v)
}

// ReceiptFor monta o comprovante a partir do agendamento já finalizado.
func ReceiptFor(ap *models.Appointment) Receipt {
	r := Receipt{
		AppointmentID:  ap.ID,
		ProfessionalID: ap.ProfessionalID,
		ClientID:       ap.ClientID,
		Date:           ap.Date,
		Time:           ap.Time,
		TotalFees:      decimal.Zero,
		TotalProfit:    decimal.Zero,
		FinalizedAt:    ap.UpdatedAt.UTC(),
	}

	for _, l := range ap.Services {
		line := ReceiptLine{
			ServiceID:          l.ServiceID,
			NetServiceValue:    decimalOf(l.NetServiceValue),
			PaymentFee:         decimalOf(l.PaymentFee),
			SalonProfit:        decimalOf(l.SalonProfit),
			CommissionRate:     decimalOf(l.CommissionRate),
			DiscountPaymentFee: l.DiscountPaymentFee != nil && *l.DiscountPaymentFee,
		}
		if l.Service != nil {
			line.ServiceName = l.Service.Name
		}
		if r.PaymentMethodID == nil {
			r.PaymentMethodID = l.PaymentMethodID
		}
		r.TotalFees = r.TotalFees.Add(line.PaymentFee)
		r.TotalProfit = r.TotalProfit.Add(line.SalonProfit)
		r.Lines = append(r.Lines, line)
	}
	return r
}

func receiptKey(r Receipt) string {
	day := r.Date
	if t, err := time.Parse("2006-01-02", r.Date); err == nil {
		day = t.Format("2006/01/02")
	}
	return fmt.Sprintf("receipts/v1/%s/%s.json", day, r.AppointmentID)
}

// PutReceipt grava o comprovante e devolve a chave usada.
func (s *Store) PutReceipt(ctx context.Context, r Receipt) (string, error) {
	if !s.Enabled() {
		return "", nil
	}

	data, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("archive: marshal receipt: %w", err)
	}

	key := receiptKey(r)
	_, err = s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("archive: s3 put %s: %w", key, err)
	}

	s.log.Info("archived receipt",
		"appointment_id", r.AppointmentID,
		"s3_key", key,
		"lines", len(r.Lines),
	)
	return key, nil
}
