package sqlitevec_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/lecternhq/lectern/pkg/vector"
	"github.com/lecternhq/lectern/pkg/vector/sqlitevec"
)

var _ = Describe("Driver", func() {
	var logger *zap.Logger

	BeforeEach(func() {
		logger = zap.NewNop()
	})

	Describe("NewDriver", func() {
		It("should return an error when DBPath is empty", func() {
			_, err := sqlitevec.NewDriver(sqlitevec.Config{DBPath: ""}, logger)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("database path is required"))
		})

		It("should create a driver with an in-memory database", func() {
			driver, err := sqlitevec.NewDriver(sqlitevec.Config{
				DBPath:     ":memory:",
				Dimensions: 4,
			}, logger)
			Expect(err).NotTo(HaveOccurred())
			Expect(driver).NotTo(BeNil())
			Expect(driver.Close()).To(Succeed())
		})

		It("should error when dimensions are not specified", func() {
			_, err := sqlitevec.NewDriver(sqlitevec.Config{
				DBPath: ":memory:",
			}, logger)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Interface compliance", func() {
		It("should implement vector.Driver", func() {
			var _ vector.Driver = (*sqlitevec.Driver)(nil)
		})
	})

	Context("with an in-memory database", func() {
		var (
			ctx    context.Context
			driver *sqlitevec.Driver
		)

		BeforeEach(func() {
			ctx = context.Background()
			var err error
			driver, err = sqlitevec.NewDriver(sqlitevec.Config{
				DBPath:     ":memory:",
				Dimensions: 4,
			}, logger)
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			Expect(driver.Close()).To(Succeed())
		})

		doc := func(id string, page int, emb ...float32) vector.Document {
			return vector.Document{
				ID:        id,
				Text:      "text for " + id,
				Source:    "notes.pdf",
				Page:      page,
				Embedding: emb,
			}
		}

		Describe("Count", func() {
			It("should report zero for a fresh store", func() {
				n, err := driver.Count(ctx)
				Expect(err).NotTo(HaveOccurred())
				Expect(n).To(Equal(0))
			})

			It("should count added documents", func() {
				Expect(driver.Add(ctx, []vector.Document{
					doc("a", 1, 0.1, 0.2, 0.3, 0.4),
					doc("b", 2, 0.4, 0.3, 0.2, 0.1),
				})).To(Succeed())

				n, err := driver.Count(ctx)
				Expect(err).NotTo(HaveOccurred())
				Expect(n).To(Equal(2))
			})
		})

		Describe("Add", func() {
			It("should do nothing when given empty docs", func() {
				Expect(driver.Add(ctx, []vector.Document{})).To(Succeed())
			})

			It("should reject a document without an embedding", func() {
				err := driver.Add(ctx, []vector.Document{{ID: "bad"}})
				Expect(err).To(MatchError(vector.ErrEmbedding))
			})

			It("should upsert on duplicate IDs", func() {
				Expect(driver.Add(ctx, []vector.Document{
					doc("a", 1, 1, 0, 0, 0),
				})).To(Succeed())

				updated := doc("a", 3, 0, 1, 0, 0)
				updated.Text = "updated text"
				Expect(driver.Add(ctx, []vector.Document{updated})).To(Succeed())

				n, err := driver.Count(ctx)
				Expect(err).NotTo(HaveOccurred())
				Expect(n).To(Equal(1))

				results, err := driver.Query(ctx, []float32{0, 1, 0, 0}, 1)
				Expect(err).NotTo(HaveOccurred())
				Expect(results).To(HaveLen(1))
				Expect(results[0].Text).To(Equal("updated text"))
				Expect(results[0].Page).To(Equal(3))
			})
		})

		Describe("Query", func() {
			BeforeEach(func() {
				Expect(driver.Add(ctx, []vector.Document{
					doc("x", 1, 1, 0, 0, 0),
					doc("y", 2, 0, 1, 0, 0),
					doc("z", 3, 0.9, 0.1, 0, 0),
				})).To(Succeed())
			})

			It("should return nearest documents with ascending distance", func() {
				results, err := driver.Query(ctx, []float32{1, 0, 0, 0}, 3)
				Expect(err).NotTo(HaveOccurred())
				Expect(results).To(HaveLen(3))
				Expect(results[0].ID).To(Equal("x"))
				Expect(results[1].ID).To(Equal("z"))
				Expect(results[2].ID).To(Equal("y"))
				Expect(results[0].Distance).To(BeNumerically("<=", results[1].Distance))
				Expect(results[1].Distance).To(BeNumerically("<=", results[2].Distance))
			})

			It("should carry provenance through query results", func() {
				results, err := driver.Query(ctx, []float32{0, 1, 0, 0}, 1)
				Expect(err).NotTo(HaveOccurred())
				Expect(results).To(HaveLen(1))
				Expect(results[0].Source).To(Equal("notes.pdf"))
				Expect(results[0].Page).To(Equal(2))
				Expect(results[0].Text).To(Equal("text for y"))
			})

			It("should return nothing for a non-positive topK", func() {
				results, err := driver.Query(ctx, []float32{1, 0, 0, 0}, 0)
				Expect(err).NotTo(HaveOccurred())
				Expect(results).To(BeEmpty())
			})
		})

		Describe("Delete", func() {
			It("should remove documents and their embeddings", func() {
				Expect(driver.Add(ctx, []vector.Document{
					doc("a", 1, 1, 0, 0, 0),
					doc("b", 2, 0, 1, 0, 0),
				})).To(Succeed())

				Expect(driver.Delete(ctx, []string{"a"})).To(Succeed())

				n, err := driver.Count(ctx)
				Expect(err).NotTo(HaveOccurred())
				Expect(n).To(Equal(1))

				results, err := driver.Query(ctx, []float32{1, 0, 0, 0}, 2)
				Expect(err).NotTo(HaveOccurred())
				Expect(results).To(HaveLen(1))
				Expect(results[0].ID).To(Equal("b"))
			})

			It("should do nothing when given no IDs", func() {
				Expect(driver.Delete(ctx, nil)).To(Succeed())
			})
		})
	})
})
