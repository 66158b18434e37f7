package archive

import (
	"bytes"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/sirupsen/logrus"
)

const contentType = "application/vnd.recordare.musicxml+xml"

// UploadScore stores a rendered MusicXML document in the archive bucket.
func UploadScore(bucket, key string, data []byte) error {
	sess, err := session.NewSession(&aws.Config{})
	if err != nil {
		return fmt.Errorf("could not create AWS session: %w", err)
	}

	client := s3.New(sess)
	_, err = client.PutObject(&s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("could not upload %v: %w", key, err)
	}

	logrus.WithFields(logrus.Fields{"bucket": bucket, "key": key}).Info("score archived")
	return nil
}
