package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Public serves the marketing pages: sample menu, gallery, contact and
// reviews. The content is static presentation data with no backend calls.
type Public struct{}

func NewPublic() *Public { return &Public{} }

type sampleDish struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
}

var sampleMenu = []sampleDish{
	{ID: 1, Name: "Margherita Pizza", Description: "San Marzano tomato, fresh basil, buffalo mozzarella", Price: "$12"},
	{ID: 2, Name: "Spicy Arrabbiata Pasta", Description: "Penne tossed in a spicy tomato-garlic sauce", Price: "$11"},
	{ID: 3, Name: "Caesar Salad", Description: "Crisp romaine, shaved parmesan, house dressing", Price: "$9"},
	{ID: 4, Name: "Chocolate Lava Cake", Description: "Warm chocolate cake with molten center", Price: "$7"},
}

var menuSections = []string{"Breakfast", "Thali", "Beverages", "Rolls", "Biryani", "Party"}

// Menu shows the sample marketing menu and the section list.
func (h *Public) Menu(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"sections": menuSections,
		"menu":     sampleMenu,
	})
}

// Gallery lists the marketing gallery assets.
func (h *Public) Gallery(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"images": []gin.H{
			{"src": "/assets/gallery/kitchen.jpg", "caption": "Our kitchen"},
			{"src": "/assets/gallery/dining.jpg", "caption": "Dining hall"},
			{"src": "/assets/gallery/thali.jpg", "caption": "Signature thali"},
		},
	})
}

// Reviews shows a handful of customer reviews.
func (h *Public) Reviews(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"reviews": []gin.H{
			{"author": "Asha", "rating": 5, "text": "Best paneer rice meal in town."},
			{"author": "Rohan", "rating": 4, "text": "Quick delivery, generous portions."},
			{"author": "Meera", "rating": 5, "text": "The chicken tikka meal never disappoints."},
		},
	})
}

type contactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message" binding:"required"`
}

// Contact accepts a contact-form submission and logs it; there is no
// backend endpoint for it.
func (h *Public) Contact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationFailed(c, err)
		return
	}
	log.Printf("contact: message from %s <%s>: %s", req.Name, req.Email, req.Message)
	c.JSON(http.StatusOK, gin.H{"message": "Thanks, we will get back to you"})
}
