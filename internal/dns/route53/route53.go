package route53

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	"github.com/aws/aws-sdk-go-v2/service/route53/types"
	"github.com/go-logr/logr"

	"github.com/yuriy-kovalchuk/yk-ddns/internal/dns"
)

func init() {
	dns.Register("route53", func(log logr.Logger, settings map[string]string) (dns.Provider, error) {
		return New(log, settings)
	})
}

// API is the subset of the Route 53 client the provider uses.
type API interface {
	ListResourceRecordSets(ctx context.Context, params *route53.ListResourceRecordSetsInput, optFns ...func(*route53.Options)) (*route53.ListResourceRecordSetsOutput, error)
	ChangeResourceRecordSets(ctx context.Context, params *route53.ChangeResourceRecordSetsInput, optFns ...func(*route53.Options)) (*route53.ChangeResourceRecordSetsOutput, error)
}

// Provider implements dns.Provider for Amazon Route 53. The record zone is
// the hosted zone ID; a non-empty record region overrides the client region
// for that call.
type Provider struct {
	client API
	log    logr.Logger
}

// New creates a Route 53 provider from the default AWS credential chain.
// Optional settings: region.
func New(log logr.Logger, settings map[string]string) (*Provider, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region := settings["region"]; region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("route53: loading AWS config: %w", err)
	}
	return NewWithClient(log, route53.NewFromConfig(cfg)), nil
}

// NewWithClient creates a provider around an existing client.
func NewWithClient(log logr.Logger, client API) *Provider {
	return &Provider{client: client, log: log}
}

func withRegion(region string) func(*route53.Options) {
	return func(o *route53.Options) {
		if region != "" {
			o.Region = region
		}
	}
}

// Read returns the first value of the record set matching hostname and type.
func (p *Provider) Read(ctx context.Context, record dns.Record) (string, error) {
	if record.Zone == "" {
		return "", fmt.Errorf("route53: missing hosted zone id")
	}
	out, err := p.client.ListResourceRecordSets(ctx, &route53.ListResourceRecordSetsInput{
		HostedZoneId:    aws.String(record.Zone),
		StartRecordName: aws.String(record.Hostname),
		StartRecordType: types.RRType(record.Type),
		MaxItems:        aws.Int32(1),
	}, withRegion(record.Region))
	if err != nil {
		return "", fmt.Errorf("route53: list record sets for %s: %w", record.Hostname, err)
	}

	for _, set := range out.ResourceRecordSets {
		name := strings.TrimSuffix(aws.ToString(set.Name), ".")
		if !strings.EqualFold(name, record.Hostname) || string(set.Type) != record.Type {
			continue
		}
		if len(set.ResourceRecords) == 0 {
			return "", nil
		}
		return aws.ToString(set.ResourceRecords[0].Value), nil
	}
	return "", nil
}

// Write upserts the record set so it holds exactly record.Value.
func (p *Provider) Write(ctx context.Context, record dns.Record) error {
	if record.Zone == "" {
		return fmt.Errorf("route53: missing hosted zone id")
	}
	p.log.Info("upserting record set", "hostname", record.Hostname, "type", record.Type, "value", record.Value, "zone", record.Zone)

	_, err := p.client.ChangeResourceRecordSets(ctx, &route53.ChangeResourceRecordSetsInput{
		HostedZoneId: aws.String(record.Zone),
		ChangeBatch: &types.ChangeBatch{
			Comment: aws.String("yk-ddns update"),
			Changes: []types.Change{{
				Action: types.ChangeActionUpsert,
				ResourceRecordSet: &types.ResourceRecordSet{
					Name: aws.String(record.Hostname),
					Type: types.RRType(record.Type),
					TTL:  aws.Int64(int64(record.TTL)),
					ResourceRecords: []types.ResourceRecord{
						{Value: aws.String(record.Value)},
					},
				},
			}},
		},
	}, withRegion(record.Region))
	if err != nil {
		return fmt.Errorf("route53: upsert %s: %w", record.Hostname, err)
	}
	return nil
}
