package domain_test

import (
	"docuflow/domain"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("StepDefinitions", func() {
	Describe("Value", func() {
		It("should serialize to a JSON string", func() {
			steps := domain.StepDefinitions{
				{Name: "Review", AssigneeID: 101},
				{Name: "Sign-off", AssigneeID: 102},
			}
			v, err := steps.Value()
			Expect(err).To(BeNil())
			Expect(v).To(Equal(`[{"name":"Review","assigneeId":"101"},{"name":"Sign-off","assigneeId":"102"}]`))
		})
	})

	Describe("Scan", func() {
		It("should accept both string and []byte", func() {
			steps := domain.StepDefinitions{}
			Expect(steps.Scan(`[{"name":"Review","assigneeId":"101"}]`)).To(BeNil())
			Expect(steps).To(Equal(domain.StepDefinitions{{Name: "Review", AssigneeID: 101}}))

			steps = domain.StepDefinitions{}
			Expect(steps.Scan([]byte(`[{"name":"Sign-off","assigneeId":"102"}]`))).To(BeNil())
			Expect(steps).To(Equal(domain.StepDefinitions{{Name: "Sign-off", AssigneeID: 102}}))
		})

		It("should reject unsupported source types", func() {
			steps := domain.StepDefinitions{}
			Expect(steps.Scan(123)).ToNot(BeNil())
		})
	})
})
