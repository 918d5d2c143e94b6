package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestTokenBucket_Allow(t *testing.T) {
	bucket := newTokenBucket(10, 1.0) // 10 tokens, 1 token per second

	for i := 0; i < 10; i++ {
		if !bucket.allow() {
			t.Errorf("Expected request %d to be allowed", i+1)
		}
	}
	if bucket.allow() {
		t.Error("Expected 11th request to be denied")
	}

	remaining, resetTime := bucket.getStatus()
	if remaining != 0 {
		t.Errorf("Expected 0 remaining tokens, got %d", remaining)
	}
	if resetTime.Before(time.Now()) {
		t.Error("Reset time should be in the future")
	}
}

func TestLimiter_Allow(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
	})
	defer limiter.Stop()

	clientID := "127.0.0.1"

	for i := 0; i < 10; i++ {
		allowed, rateInfo := limiter.Allow(clientID, "/resumes", "GET")
		if !allowed {
			t.Errorf("Expected request %d to be allowed", i+1)
		}
		if rateInfo.Remaining != 9-i {
			t.Errorf("Expected remaining %d, got %d", 9-i, rateInfo.Remaining)
		}
	}

	allowed, rateInfo := limiter.Allow(clientID, "/resumes", "GET")
	if allowed {
		t.Error("Expected 11th request to be denied")
	}
	if rateInfo.RetryAfter <= 0 {
		t.Error("Expected retry after to be positive")
	}
}

func TestLimiter_WhitelistAndBlacklist(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{"127.0.0.1": true},
		Blacklist:     map[string]bool{"192.168.1.1": true},
	})
	defer limiter.Stop()

	// Whitelisted clients bypass the limit entirely
	for i := 0; i < 100; i++ {
		if allowed, _ := limiter.Allow("127.0.0.1", "/resumes", "GET"); !allowed {
			t.Errorf("Expected whitelisted request %d to be allowed", i+1)
		}
	}

	if allowed, _ := limiter.Allow("192.168.1.1", "/resumes", "GET"); allowed {
		t.Error("Expected blacklisted request to be denied")
	}
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: false})
	defer limiter.Stop()

	for i := 0; i < 100; i++ {
		if allowed, _ := limiter.Allow("127.0.0.1", "/resumes", "GET"); !allowed {
			t.Errorf("Expected request %d to be allowed when disabled", i+1)
		}
	}
}

func TestLimiter_EndpointSpecific(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/resumes/upload", Method: "POST", Limit: 5, Window: time.Hour, Burst: 5},
		},
	})
	defer limiter.Stop()

	clientID := "127.0.0.1"

	// The model-backed upload endpoint carries its own tight limit
	for i := 0; i < 5; i++ {
		allowed, rateInfo := limiter.Allow(clientID, "/resumes/upload", "POST")
		if !allowed {
			t.Errorf("Expected upload %d to be allowed", i+1)
		}
		if rateInfo.Limit != 5 {
			t.Errorf("Expected limit 5, got %d", rateInfo.Limit)
		}
	}
	if allowed, _ := limiter.Allow(clientID, "/resumes/upload", "POST"); allowed {
		t.Error("Expected 6th upload to be denied")
	}

	// Other endpoints still run on the default limit
	allowed, rateInfo := limiter.Allow(clientID, "/resumes", "GET")
	if !allowed {
		t.Error("Expected different endpoint to be allowed")
	}
	if rateInfo.Limit != 1000 {
		t.Errorf("Expected default limit 1000, got %d", rateInfo.Limit)
	}
}

func TestLimiter_Burst(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/resumes/analyze-file", Method: "POST", Limit: 10, Window: time.Minute, Burst: 5},
		},
	})
	defer limiter.Stop()

	clientID := "127.0.0.1"

	for i := 0; i < 5; i++ {
		if allowed, _ := limiter.Allow(clientID, "/resumes/analyze-file", "POST"); !allowed {
			t.Errorf("Expected burst request %d to be allowed", i+1)
		}
	}
	if allowed, _ := limiter.Allow(clientID, "/resumes/analyze-file", "POST"); allowed {
		t.Error("Expected request after burst to be denied")
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
	})
	defer limiter.Stop()

	clientID := "127.0.0.1"

	var wg sync.WaitGroup
	allowedCount := 0
	var mu sync.Mutex

	// 200 concurrent requests against a limit of 100
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if allowed, _ := limiter.Allow(clientID, "/resumes", "GET"); allowed {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowedCount != 100 {
		t.Errorf("Expected 100 allowed requests, got %d", allowedCount)
	}
}

func TestLimiter_PerClientBuckets(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
	})
	defer limiter.Stop()

	// One client exhausting its bucket must not affect another
	for i := 0; i < 3; i++ {
		clientID := fmt.Sprintf("127.0.0.%d", i+1)
		if allowed, _ := limiter.Allow(clientID, "/resumes", "GET"); !allowed {
			t.Errorf("Expected first request from %s to be allowed", clientID)
		}
		if allowed, _ := limiter.Allow(clientID, "/resumes", "GET"); allowed {
			t.Errorf("Expected second request from %s to be denied", clientID)
		}
	}
}

func TestNewLimiter_NilConfig(t *testing.T) {
	limiter := NewLimiter(nil)
	defer limiter.Stop()

	allowed, rateInfo := limiter.Allow("127.0.0.1", "/resumes", "GET")
	if !allowed {
		t.Error("Expected request to be allowed with default config")
	}
	if rateInfo.Limit != 1000 {
		t.Errorf("Expected default limit 1000, got %d", rateInfo.Limit)
	}
}
