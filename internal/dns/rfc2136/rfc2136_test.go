package rfc2136

import (
	"context"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/miekg/dns"

	ykdns "github.com/yuriy-kovalchuk/yk-ddns/internal/dns"
)

// fakeServer is an authoritative server for one zone that accepts updates.
type fakeServer struct {
	mu       sync.Mutex
	records  map[string]dns.RR // key: name + "/" + type
	requireT bool
	updates  int
}

func key(name string, t uint16) string {
	return strings.ToLower(name) + "/" + dns.TypeToString[t]
}

func (f *fakeServer) ServeDNS(w dns.ResponseWriter, r *dns.Msg) {
	f.mu.Lock()
	defer f.mu.Unlock()

	reply := new(dns.Msg)
	reply.SetReply(r)

	if f.requireT && (r.IsTsig() == nil || w.TsigStatus() != nil) {
		reply.Rcode = dns.RcodeRefused
		_ = w.WriteMsg(reply)
		return
	}

	switch r.Opcode {
	case dns.OpcodeUpdate:
		f.updates++
		for _, rr := range r.Ns {
			h := rr.Header()
			if h.Class == dns.ClassANY {
				delete(f.records, key(h.Name, h.Rrtype))
				continue
			}
			f.records[key(h.Name, h.Rrtype)] = rr
		}
	case dns.OpcodeQuery:
		q := r.Question[0]
		rr, ok := f.records[key(q.Name, q.Qtype)]
		if !ok {
			reply.Rcode = dns.RcodeNameError
			break
		}
		reply.Answer = append(reply.Answer, rr)
	}

	_ = w.WriteMsg(reply)
}

func startServer(t *testing.T, f *fakeServer, tsig map[string]string) string {
	t.Helper()
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	started := make(chan struct{})
	srv := &dns.Server{PacketConn: pc, Handler: f, TsigSecret: tsig, NotifyStartedFunc: func() { close(started) }}
	go func() { _ = srv.ActivateAndServe() }()
	t.Cleanup(func() { _ = srv.Shutdown() })

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("dns server did not start")
	}
	return pc.LocalAddr().String()
}

func newFake() *fakeServer {
	return &fakeServer{records: map[string]dns.RR{}}
}

func TestNew_MissingServer(t *testing.T) {
	if _, err := New(logr.Discard(), map[string]string{}); err == nil {
		t.Fatal("expected error for missing server, got nil")
	}
}

func TestNew_DefaultPort(t *testing.T) {
	p, err := New(logr.Discard(), map[string]string{"server": "ns1.example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.server != "ns1.example.com:53" {
		t.Errorf("expected 'ns1.example.com:53', got %q", p.server)
	}
}

func TestNew_KeyWithoutSecret(t *testing.T) {
	_, err := New(logr.Discard(), map[string]string{"server": "127.0.0.1", "key_name": "ddns"})
	if err == nil {
		t.Fatal("expected error for key_name without key_secret, got nil")
	}
}

func TestNew_InvalidTimeout(t *testing.T) {
	_, err := New(logr.Discard(), map[string]string{"server": "127.0.0.1", "timeout": "soon"})
	if err == nil {
		t.Fatal("expected error for invalid timeout, got nil")
	}
}

func TestReadWrite(t *testing.T) {
	f := newFake()
	addr := startServer(t, f, nil)

	p, err := New(logr.Discard(), map[string]string{"server": addr})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()
	rec := ykdns.Record{Hostname: "home.example.com", Type: "A", Value: "1.1.1.1", TTL: 60, Zone: "example.com"}

	got, err := p.Read(ctx, rec)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty value, got %q", got)
	}

	if err := p.Write(ctx, rec); err != nil {
		t.Fatalf("Write: %v", err)
	}
	rec.Value = "2.2.2.2"
	if err := p.Write(ctx, rec); err != nil {
		t.Fatalf("Write (replace): %v", err)
	}

	got, err = p.Read(ctx, rec)
	if err != nil {
		t.Fatalf("Read after write: %v", err)
	}
	if got != "2.2.2.2" {
		t.Errorf("expected '2.2.2.2', got %q", got)
	}
	if f.updates != 2 {
		t.Errorf("expected 2 updates, got %d", f.updates)
	}
}

func TestWrite_TSIG(t *testing.T) {
	secret := "c2VjcmV0LXNlY3JldC1zZWNyZXQ=" // base64
	f := newFake()
	f.requireT = true
	addr := startServer(t, f, map[string]string{"ddns-key.": secret})

	p, err := New(logr.Discard(), map[string]string{"server": addr, "key_name": "ddns-key", "key_secret": secret})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec := ykdns.Record{Hostname: "home.example.com", Type: "AAAA", Value: "2001:db8::1", TTL: 60, Zone: "example.com"}
	if err := p.Write(context.Background(), rec); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, ok := f.records[key("home.example.com.", dns.TypeAAAA)]; !ok {
		t.Error("expected AAAA record to be stored")
	}
}

func TestWrite_Unsigned_Refused(t *testing.T) {
	f := newFake()
	f.requireT = true
	addr := startServer(t, f, map[string]string{"ddns-key.": "c2VjcmV0"})

	p, err := New(logr.Discard(), map[string]string{"server": addr})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec := ykdns.Record{Hostname: "home.example.com", Type: "A", Value: "1.1.1.1", TTL: 60, Zone: "example.com"}
	err = p.Write(context.Background(), rec)
	if err == nil {
		t.Fatal("expected refused error, got nil")
	}
	if !strings.Contains(err.Error(), "REFUSED") {
		t.Errorf("expected REFUSED in error, got %q", err.Error())
	}
}

func TestWrite_MissingZone(t *testing.T) {
	p, err := New(logr.Discard(), map[string]string{"server": "127.0.0.1:1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.Write(context.Background(), ykdns.Record{Hostname: "home.example.com", Type: "A", Value: "1.1.1.1"}); err == nil {
		t.Fatal("expected error for missing zone, got nil")
	}
}
