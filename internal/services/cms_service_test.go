// internal/services/cms_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/TTMordred/long-chau-pharmacy-backend/internal/models"
	"github.com/TTMordred/long-chau-pharmacy-backend/internal/utils"
)

type CMSServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *CMSService
	admin   *models.User
}

func (s *CMSServiceTestSuite) SetupTest() {
	s.db = setupTestDB(s.T())
	s.service = NewCMSService(s.db)
	s.admin = createTestUser(s.T(), s.db, models.UserRoleAdmin)
}

func (s *CMSServiceTestSuite) TestDraftsAreInvisibleUntilPublished() {
	page, err := s.service.CreatePage(s.admin.ID, &PageRequest{
		Slug:    "about-us",
		Title:   "About Long Chau",
		Content: "We have been dispensing medicine since 2007.",
	})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.ContentStatusDraft, page.Status)
	assert.Nil(s.T(), page.PublishedAt)

	_, err = s.service.GetPublishedPage("about-us")
	assert.Error(s.T(), err)

	published, err := s.service.PublishPage(page.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.ContentStatusPublished, published.Status)
	require.NotNil(s.T(), published.PublishedAt)

	found, err := s.service.GetPublishedPage("about-us")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), page.ID, found.ID)
}

func (s *CMSServiceTestSuite) TestSlugMustBeUnique() {
	_, err := s.service.CreatePage(s.admin.ID, &PageRequest{
		Slug:    "delivery-policy",
		Title:   "Delivery Policy",
		Content: "Same-day delivery within Ho Chi Minh City.",
	})
	require.NoError(s.T(), err)

	_, err = s.service.CreatePage(s.admin.ID, &PageRequest{
		Slug:    "delivery-policy",
		Title:   "Delivery Policy v2",
		Content: "Updated terms.",
	})
	assert.Error(s.T(), err)
}

func (s *CMSServiceTestSuite) TestInvalidSlugRejected() {
	_, err := s.service.CreatePage(s.admin.ID, &PageRequest{
		Slug:    "Not A Slug!",
		Title:   "Broken",
		Content: "body",
	})
	assert.Error(s.T(), err)
}

func (s *CMSServiceTestSuite) TestPublicListingExcludesDrafts() {
	draft, err := s.service.CreateBlogPost(s.admin.ID, &BlogPostRequest{
		Slug:    "flu-season-prep",
		Title:   "Preparing for Flu Season",
		Content: "Stock up on the essentials.",
	})
	require.NoError(s.T(), err)

	live, err := s.service.CreateBlogPost(s.admin.ID, &BlogPostRequest{
		Slug:    "vitamin-d-guide",
		Title:   "A Practical Vitamin D Guide",
		Content: "How much is enough.",
		Tags:    []string{"vitamins", "guides"},
	})
	require.NoError(s.T(), err)
	_, err = s.service.PublishBlogPost(live.ID)
	require.NoError(s.T(), err)

	posts, total, err := s.service.ListBlogPosts(utils.PaginationParams{Page: 1, Limit: 10}, true)
	require.NoError(s.T(), err)
	assert.EqualValues(s.T(), 1, total)
	require.Len(s.T(), posts, 1)
	assert.Equal(s.T(), live.ID, posts[0].ID)
	assert.NotEqual(s.T(), draft.ID, posts[0].ID)

	// The editorial listing still sees both
	posts, total, err = s.service.ListBlogPosts(utils.PaginationParams{Page: 1, Limit: 10}, false)
	require.NoError(s.T(), err)
	assert.EqualValues(s.T(), 2, total)
	assert.Len(s.T(), posts, 2)
}

func (s *CMSServiceTestSuite) TestHealthArticleLifecycle() {
	article, err := s.service.CreateHealthArticle(s.admin.ID, &HealthArticleRequest{
		Slug:    "managing-hypertension",
		Title:   "Managing Hypertension at Home",
		Summary: "Daily habits that keep blood pressure in check.",
		Content: "Measure at the same time every day.",
		Tags:    []string{"cardiology"},
	})
	require.NoError(s.T(), err)

	_, err = s.service.PublishHealthArticle(article.ID)
	require.NoError(s.T(), err)

	updated, err := s.service.UpdateHealthArticle(article.ID, &HealthArticleRequest{
		Slug:    "managing-hypertension",
		Title:   "Managing Hypertension at Home",
		Summary: "Daily habits that keep blood pressure in check.",
		Content: "Measure at the same time every day, seated and rested.",
		Tags:    []string{"cardiology", "self-care"},
	})
	require.NoError(s.T(), err)
	assert.Contains(s.T(), updated.Content, "seated and rested")

	require.NoError(s.T(), s.service.DeleteHealthArticle(article.ID))
	_, err = s.service.GetPublishedHealthArticle("managing-hypertension")
	assert.Error(s.T(), err)

	assert.Error(s.T(), s.service.DeleteHealthArticle(article.ID))
}

func TestCMSServiceSuite(t *testing.T) {
	suite.Run(t, new(CMSServiceTestSuite))
}
