package model

import (
	"strings"
	"testing"
)

const sampleConfig = `
service: orders
provider:
  region: us-east-1
  stage: prod
functions:
  ingest:
    handler: ingest.main
    environment:
      TOPIC: "${snsTopic:order-created}"
    events:
      - snsTopic: order-created
      - http: GET /orders
  archive:
    handler: archive.main
    events:
      - sns: arn:aws:sns:us-east-1:123456789012:archive
  idle:
    handler: idle.main
`

func TestParse(t *testing.T) {
	svc, err := Parse([]byte(sampleConfig))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if svc.Name != "orders" {
		t.Errorf("Name = %q, want %q", svc.Name, "orders")
	}
	if svc.Provider.Region != "us-east-1" {
		t.Errorf("Region = %q, want %q", svc.Provider.Region, "us-east-1")
	}
	if svc.Provider.Partition != "aws" {
		t.Errorf("Partition = %q, want default %q", svc.Provider.Partition, "aws")
	}

	if len(svc.Functions) != 3 {
		t.Fatalf("len(Functions) = %d, want 3", len(svc.Functions))
	}
	// Declaration order must be preserved.
	for i, want := range []string{"ingest", "archive", "idle"} {
		if svc.Functions[i].Name != want {
			t.Errorf("Functions[%d].Name = %q, want %q", i, svc.Functions[i].Name, want)
		}
	}

	ingest := svc.Functions[0]
	if len(ingest.Events) != 2 {
		t.Fatalf("ingest events = %d, want 2", len(ingest.Events))
	}
	if !ingest.Events[0].IsTopic() || ingest.Events[0].Topic != "order-created" {
		t.Errorf("ingest.Events[0] = %+v, want snsTopic order-created", ingest.Events[0])
	}
	if ingest.Events[1].Key != "http" {
		t.Errorf("ingest.Events[1].Key = %q, want %q", ingest.Events[1].Key, "http")
	}
	if ingest.Environment["TOPIC"] != "${snsTopic:order-created}" {
		t.Errorf("ingest TOPIC env = %q", ingest.Environment["TOPIC"])
	}

	archive := svc.Functions[1]
	if archive.Events[0].Key != KeySNS || archive.Events[0].ARN != "arn:aws:sns:us-east-1:123456789012:archive" {
		t.Errorf("archive.Events[0] = %+v, want native sns entry", archive.Events[0])
	}
}

func TestParse_Validation(t *testing.T) {
	for _, tc := range []struct {
		name string
		in   string
	}{
		{"MissingService", "provider:\n  region: us-east-1\n"},
		{"MissingRegion", "service: orders\nprovider: {}\n"},
		{"EventNotMapping", "service: o\nprovider:\n  region: r\nfunctions:\n  f:\n    events:\n      - just-a-string\n"},
		{"TopicNotScalar", "service: o\nprovider:\n  region: r\nfunctions:\n  f:\n    events:\n      - snsTopic: [a, b]\n"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse([]byte(tc.in)); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestStackName(t *testing.T) {
	svc := &Service{Name: "orders", Provider: Provider{Stage: "prod"}}
	if got := svc.StackName(); got != "orders-prod" {
		t.Errorf("StackName() = %q, want %q", got, "orders-prod")
	}

	svc.Provider.StackName = "custom-stack"
	if got := svc.StackName(); got != "custom-stack" {
		t.Errorf("StackName() = %q, want %q", got, "custom-stack")
	}
}

func TestEncode_AfterRewrite(t *testing.T) {
	svc, err := Parse([]byte(sampleConfig))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	svc.Functions[0].Events[0].Rewrite("arn:aws:sns:us-east-1:123456789012:order-created")
	data, err := svc.Encode()
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}

	out := string(data)
	if strings.Contains(out, "snsTopic: order-created") {
		t.Errorf("encoded config still contains the custom event form:\n%s", out)
	}
	if !strings.Contains(out, "arn:aws:sns:us-east-1:123456789012:order-created") {
		t.Errorf("encoded config missing rewritten ARN:\n%s", out)
	}

	// Round-trip: the rewritten config must parse as native events.
	again, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse(rewritten) error: %v", err)
	}
	if again.Functions[0].Events[0].Key != KeySNS {
		t.Errorf("rewritten event key = %q, want %q", again.Functions[0].Events[0].Key, KeySNS)
	}
}
