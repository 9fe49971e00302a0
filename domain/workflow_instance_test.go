package domain_test

import (
	"time"

	"docuflow/domain"

	"github.com/fundwit/go-commons/types"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("WorkflowInstance", func() {
	Describe("InstanceStatus", func() {
		It("should treat approved, rejected and cancelled as terminal", func() {
			Expect(domain.InstanceStatusInProgress.IsTerminal()).To(BeFalse())
			Expect(domain.InstanceStatusApproved.IsTerminal()).To(BeTrue())
			Expect(domain.InstanceStatusRejected.IsTerminal()).To(BeTrue())
			Expect(domain.InstanceStatusCancelled.IsTerminal()).To(BeTrue())
			Expect(domain.InstanceStatus("unknown").IsTerminal()).To(BeFalse())
		})
	})

	Describe("StepAction", func() {
		It("should accept only approve and reject", func() {
			Expect(domain.StepActionApprove.IsValid()).To(BeTrue())
			Expect(domain.StepActionReject.IsValid()).To(BeTrue())
			Expect(domain.StepAction("").IsValid()).To(BeFalse())
			Expect(domain.StepAction("postpone").IsValid()).To(BeFalse())
		})
	})

	Describe("Position", func() {
		It("should carry the step cursor only while running", func() {
			instance := domain.WorkflowInstance{
				Status:      domain.InstanceStatusInProgress,
				CurrentStep: 2,
				Steps: domain.StepDefinitions{
					{Name: "Review", AssigneeID: 101},
					{Name: "Sign-off", AssigneeID: 102},
					{Name: "Archive", AssigneeID: 103},
				},
			}
			Expect(instance.Position()).To(Equal(domain.InstancePosition{
				Status: domain.InstanceStatusInProgress, StepNumber: 2, StepTotal: 3}))

			instance.Status = domain.InstanceStatusRejected
			Expect(instance.Position()).To(Equal(domain.InstancePosition{Status: domain.InstanceStatusRejected}))
		})
	})

	Describe("StepRecord", func() {
		It("should be completed once complete time is set", func() {
			record := domain.StepRecord{}
			Expect(record.IsCompleted()).To(BeFalse())

			record.CompleteTime = types.TimestampOfDate(2021, 1, 1, 12, 12, 12, 0, time.Local)
			Expect(record.IsCompleted()).To(BeTrue())
		})
	})
})
