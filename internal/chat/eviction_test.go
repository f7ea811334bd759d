// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MemberChat Contributors

package chat_test

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/memberchat/memberchat/internal/chat"
)

var _ = Describe("Log eviction", func() {
	const capacity = 10

	var log *chat.Log

	BeforeEach(func() {
		log = chat.NewLog(capacity)
	})

	appendN := func(n int) {
		for i := 0; i < n; i++ {
			log.Append("alice", fmt.Sprintf("message %d", i+1))
		}
	}

	It("keeps everything while at or below capacity", func() {
		appendN(capacity)
		Expect(log.Len()).To(Equal(capacity))
		Expect(log.Recent(capacity)).To(HaveLen(capacity))
	})

	It("trims back to capacity once exceeded", func() {
		appendN(capacity + 3)
		Expect(log.Len()).To(Equal(capacity))
	})

	It("evicts only the oldest entries", func() {
		appendN(capacity + 3)

		recent := log.Recent(capacity)
		Expect(recent).To(HaveLen(capacity))
		Expect(recent[0].ID).To(Equal(int64(4)))
		Expect(recent[len(recent)-1].ID).To(Equal(int64(capacity + 3)))
	})

	It("never reuses ids after eviction", func() {
		appendN(capacity + 3)

		next := log.Append("alice", "one more")
		Expect(next.ID).To(Equal(int64(capacity + 4)))
	})

	It("keeps ids strictly ascending across the retained window", func() {
		appendN(capacity * 3)

		recent := log.Recent(capacity)
		for i := 1; i < len(recent); i++ {
			Expect(recent[i].ID).To(Equal(recent[i-1].ID + 1))
		}
	})
})
