package alert

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"solana-wallet-radar/internal/domain"
	"solana-wallet-radar/internal/gateway"
	"solana-wallet-radar/internal/storage/memory"
)

type fakeTokenInfo struct{}

func (fakeTokenInfo) TokenInfo(_ context.Context, _ string) (string, string) {
	return "WIF", "4560000"
}

type recordingNotifier struct {
	sent map[int64][]string
}

func (r *recordingNotifier) Send(_ context.Context, userID int64, html string) error {
	if r.sent == nil {
		r.sent = make(map[int64][]string)
	}
	r.sent[userID] = append(r.sent[userID], html)
	return nil
}

type fixture struct {
	worker   *Worker
	gw       *gateway.Gateway
	notifier *recordingNotifier
}

func newFixture() *fixture {
	gw := gateway.New(gateway.Options{
		Wallets:     memory.NewWalletStore(),
		Holdings:    memory.NewHoldingStore(),
		Activity:    memory.NewActivityStore(),
		Notified:    memory.NewNotifiedTokenStore(),
		Subscribers: memory.NewSubscriberStore(),
		Stats:       memory.NewStatsStore(),
		Logger:      zap.NewNop(),
	})
	notifier := &recordingNotifier{}
	worker := NewWorker(Options{
		Gateway:    gw,
		TokenInfo:  fakeTokenInfo{},
		Notifier:   notifier,
		RetryDelay: time.Millisecond,
	})
	return &fixture{worker: worker, gw: gw, notifier: notifier}
}

func (f *fixture) track(t *testing.T, address, influencer string) {
	t.Helper()
	cohort := domain.CohortInfluencer
	if influencer == domain.SmartDegenHandle {
		cohort = domain.CohortSmartDegen
	}
	err := f.gw.AddWallet(context.Background(), &domain.Wallet{
		Address:     address,
		Influencer:  influencer,
		ProfileLink: "https://x.com/" + influencer,
		Cohort:      cohort,
	})
	if err != nil {
		t.Fatalf("add wallet %s: %v", address, err)
	}
}

func (f *fixture) buy(address, token string) {
	f.gw.AppendActivity(context.Background(), &domain.ActivityEvent{
		WalletAddress: address,
		TokenAddress:  token,
		Amount:        1500,
		Timestamp:     time.Now().UTC(),
		Kind:          domain.ActivitySwap,
	})
}

func (f *fixture) subscribe(t *testing.T, userID int64, inflBit, smartBit bool) {
	t.Helper()
	err := f.gw.UpsertSubscriber(context.Background(), &domain.Subscriber{
		UserID:           userID,
		NotifyInfluencer: inflBit,
		NotifySmart:      smartBit,
		PaymentDate:      time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("subscribe %d: %v", userID, err)
	}
}

func TestWorker_LoneBuyerNoAlert(t *testing.T) {
	f := newFixture()
	f.track(t, "w1", "alice")
	f.subscribe(t, 10, true, false)
	f.buy("w1", "tokenT")

	if err := f.worker.Tick(context.Background()); err != nil {
		t.Fatalf("tick: %v", err)
	}

	if f.gw.IsNotified(context.Background(), "tokenT") {
		t.Error("lone buyer must not mark the token")
	}
	if len(f.notifier.sent) != 0 {
		t.Errorf("nothing should be sent, got %v", f.notifier.sent)
	}
}

func TestWorker_ThreeInfluencersConverge(t *testing.T) {
	f := newFixture()
	for i, name := range []string{"alice", "bob", "carol"} {
		w := fmt.Sprintf("w%d", i+1)
		f.track(t, w, name)
		f.buy(w, "tokenT")
	}
	f.subscribe(t, 10, true, false)

	if err := f.worker.Tick(context.Background()); err != nil {
		t.Fatalf("tick: %v", err)
	}

	if !f.gw.IsNotified(context.Background(), "tokenT") {
		t.Fatal("token must be marked notified")
	}

	msgs := f.notifier.sent[10]
	if len(msgs) != 1 {
		t.Fatalf("expected exactly one message, got %d", len(msgs))
	}
	for _, name := range []string{"alice", "bob", "carol"} {
		if !strings.Contains(msgs[0], name) {
			t.Errorf("message missing %s line", name)
		}
	}
	if !strings.Contains(msgs[0], "4.56M") {
		t.Errorf("message missing market cap: %s", msgs[0])
	}
}

func TestWorker_SmartDegenPairAlerts(t *testing.T) {
	f := newFixture()
	// Two smart wallets clear the smart gate (>1); the influencer buy
	// lifts the distinct-wallet count past the candidate threshold.
	f.track(t, "s1", domain.SmartDegenHandle)
	f.track(t, "s2", domain.SmartDegenHandle)
	f.buy("s1", "tokenT")
	f.buy("s2", "tokenT")
	f.track(t, "w1", "alice")
	f.buy("w1", "tokenT")

	f.subscribe(t, 20, false, true)

	if err := f.worker.Tick(context.Background()); err != nil {
		t.Fatalf("tick: %v", err)
	}

	msgs := f.notifier.sent[20]
	if len(msgs) != 1 {
		t.Fatalf("expected smart alert, got %v", f.notifier.sent)
	}
	if strings.Contains(msgs[0], "alice") {
		t.Errorf("smart message must not list influencer wallets: %s", msgs[0])
	}
	if !strings.Contains(msgs[0], domain.SmartDegenHandle) {
		t.Errorf("smart message missing smart wallets: %s", msgs[0])
	}
}

func TestWorker_RoutingBothBits(t *testing.T) {
	f := newFixture()
	for i, name := range []string{"alice", "bob", "carol"} {
		w := fmt.Sprintf("w%d", i+1)
		f.track(t, w, name)
		f.buy(w, "tokenT")
	}
	f.subscribe(t, 10, true, true)  // both → combined list
	f.subscribe(t, 20, true, false) // infl only
	f.subscribe(t, 30, false, true) // smart only, smart=0 → nothing
	f.subscribe(t, 40, false, false)

	if err := f.worker.Tick(context.Background()); err != nil {
		t.Fatalf("tick: %v", err)
	}

	if len(f.notifier.sent[10]) != 1 {
		t.Errorf("both-bits subscriber must get one message")
	}
	if len(f.notifier.sent[20]) != 1 {
		t.Errorf("influencer subscriber must get one message")
	}
	if len(f.notifier.sent[30]) != 0 {
		t.Errorf("smart-only subscriber must get nothing, got %v", f.notifier.sent[30])
	}
	if len(f.notifier.sent[40]) != 0 {
		t.Errorf("no-bits subscriber must get nothing")
	}
}

func TestWorker_AtMostOnce(t *testing.T) {
	f := newFixture()
	for i, name := range []string{"alice", "bob", "carol"} {
		w := fmt.Sprintf("w%d", i+1)
		f.track(t, w, name)
		f.buy(w, "tokenT")
	}
	f.subscribe(t, 10, true, false)

	ctx := context.Background()
	if err := f.worker.Tick(ctx); err != nil {
		t.Fatalf("first tick: %v", err)
	}
	if err := f.worker.Tick(ctx); err != nil {
		t.Fatalf("second tick: %v", err)
	}

	if got := len(f.notifier.sent[10]); got != 1 {
		t.Fatalf("expected a single alert across ticks, got %d", got)
	}
}

func TestWorker_OperatorClearReenables(t *testing.T) {
	f := newFixture()
	for i, name := range []string{"alice", "bob", "carol"} {
		w := fmt.Sprintf("w%d", i+1)
		f.track(t, w, name)
		f.buy(w, "tokenT")
	}
	f.subscribe(t, 10, true, false)

	ctx := context.Background()
	if err := f.worker.Tick(ctx); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if err := f.gw.ClearNotified(ctx, "tokenT"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := f.worker.Tick(ctx); err != nil {
		t.Fatalf("tick after clear: %v", err)
	}

	if got := len(f.notifier.sent[10]); got != 2 {
		t.Fatalf("expected a second alert after operator clear, got %d", got)
	}
}
