package ratelimit

import (
	"testing"
	"time"
)

func TestBucketCapacity(t *testing.T) {
	bucket := NewBucket(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !bucket.Allow() {
			t.Fatalf("Expected message %d to pass within capacity", i+1)
		}
	}
	if bucket.Allow() {
		t.Error("Expected the fourth message to be rejected")
	}
	if bucket.Allow() {
		t.Error("Expected continued rejection while drained")
	}
}

func TestBucketRefill(t *testing.T) {
	bucket := NewBucket(2, 30*time.Millisecond)

	bucket.Allow()
	bucket.Allow()
	if bucket.Allow() {
		t.Fatal("Expected the bucket to be drained")
	}

	time.Sleep(45 * time.Millisecond)
	if !bucket.Allow() {
		t.Error("Expected one token back after the refill interval")
	}
	if bucket.Allow() {
		t.Error("Expected only one token after a single interval")
	}
}

func TestBucketsAreIndependent(t *testing.T) {
	first := NewBucket(1, time.Minute)
	second := NewBucket(1, time.Minute)

	if !first.Allow() {
		t.Fatal("Expected the first bucket to have a token")
	}
	if !second.Allow() {
		t.Error("Expected draining one bucket to leave the other full")
	}
}
