package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var movies = []model.Movie{
	{
		ID:          1,
		Title:       "Dune: Part Two",
		Poster:      "https://images.unsplash.com/photo-1536440136628-849c177e76a1?auto=format&fit=crop&q=80&w=1925&ixlib=rb-4.0.3",
		Backdrop:    "https://images.unsplash.com/photo-1506477331477-33d5d8b3dc85?auto=format&fit=crop&q=80&w=2070&ixlib=rb-4.0.3",
		ReleaseDate: "2024-03-01",
		Duration:    166,
		Genres:      []string{"Action", "Adventure", "Sci-Fi"},
		Rating:      8.8,
		Director:    "Denis Villeneuve",
		Cast:        []string{"Timothée Chalamet", "Zendaya", "Rebecca Ferguson", "Josh Brolin"},
		Synopsis:    "Paul Atreides unites with Chani and the Fremen while seeking revenge against the conspirators who destroyed his family.",
		Status:      model.MovieNowShowing,
	},
	{
		ID:          2,
		Title:       "The Batman",
		Poster:      "https://images.unsplash.com/photo-1531259683007-016a7b628fc3?auto=format&fit=crop&q=80&w=1887&ixlib=rb-4.0.3",
		Backdrop:    "https://images.unsplash.com/photo-1497124401559-3e75ec2ed794?auto=format&fit=crop&q=80&w=2070&ixlib=rb-4.0.3",
		ReleaseDate: "2024-03-04",
		Duration:    176,
		Genres:      []string{"Action", "Crime", "Drama"},
		Rating:      7.9,
		Director:    "Matt Reeves",
		Cast:        []string{"Robert Pattinson", "Zoë Kravitz", "Jeffrey Wright", "Colin Farrell"},
		Synopsis:    "When a sadistic serial killer begins murdering key political figures in Gotham, Batman is forced to investigate the city's hidden corruption.",
		Status:      model.MovieNowShowing,
	},
	{
		ID:          3,
		Title:       "Everything Everywhere All at Once",
		Poster:      "https://images.unsplash.com/photo-1632266484284-a11d9e3a460a?auto=format&fit=crop&q=80&w=1887&ixlib=rb-4.0.3",
		Backdrop:    "https://images.unsplash.com/photo-1559825481-12a05cc00344?auto=format&fit=crop&q=80&w=2070&ixlib=rb-4.0.3",
		ReleaseDate: "2024-02-10",
		Duration:    139,
		Genres:      []string{"Action", "Adventure", "Comedy"},
		Rating:      7.8,
		Director:    "Daniel Kwan, Daniel Scheinert",
		Cast:        []string{"Michelle Yeoh", "Stephanie Hsu", "Ke Huy Quan", "Jamie Lee Curtis"},
		Synopsis:    "A middle-aged Chinese immigrant is swept up in an insane adventure where she alone can save existence by exploring other universes.",
		Status:      model.MovieNowShowing,
	},
	{
		ID:          4,
		Title:       "Oppenheimer",
		Poster:      "https://images.unsplash.com/photo-1541701494587-cb58502866ab?auto=format&fit=crop&q=80&w=2070&ixlib=rb-4.0.3",
		Backdrop:    "https://images.unsplash.com/photo-1633613286991-611fe299c4be?auto=format&fit=crop&q=80&w=2070&ixlib=rb-4.0.3",
		ReleaseDate: "2024-02-15",
		Duration:    180,
		Genres:      []string{"Biography", "Drama", "History"},
		Rating:      8.4,
		Director:    "Christopher Nolan",
		Cast:        []string{"Cillian Murphy", "Emily Blunt", "Matt Damon", "Robert Downey Jr."},
		Synopsis:    "The story of American scientist J. Robert Oppenheimer and his role in the development of the atomic bomb.",
		Status:      model.MovieNowShowing,
	},
	{
		ID:          5,
		Title:       "Barbie",
		Poster:      "https://images.unsplash.com/photo-1700305772078-5a80dab6e565?auto=format&fit=crop&q=80&w=1887&ixlib=rb-4.0.3",
		Backdrop:    "https://images.unsplash.com/photo-1594844184210-2a08597adfa2?auto=format&fit=crop&q=80&w=2070&ixlib=rb-4.0.3",
		ReleaseDate: "2024-01-21",
		Duration:    114,
		Genres:      []string{"Adventure", "Comedy", "Fantasy"},
		Rating:      7.0,
		Director:    "Greta Gerwig",
		Cast:        []string{"Margot Robbie", "Ryan Gosling", "America Ferrera", "Kate McKinnon"},
		Synopsis:    "Barbie and Ken are having the time of their lives in the colorful and seemingly perfect world of Barbie Land.",
		Status:      model.MovieNowShowing,
	},
	{
		ID:          6,
		Title:       "Deadpool 3",
		Poster:      "https://images.unsplash.com/photo-1485846234645-a62644f84728?auto=format&fit=crop&q=80&w=1759&ixlib=rb-4.0.3",
		Backdrop:    "https://images.unsplash.com/photo-1478720568477-152d9b164e26?auto=format&fit=crop&q=80&w=2070&ixlib=rb-4.0.3",
		ReleaseDate: "2024-07-26",
		Genres:      []string{"Action", "Adventure", "Comedy"},
		Director:    "Shawn Levy",
		Cast:        []string{"Ryan Reynolds", "Hugh Jackman", "Emma Corrin", "Morena Baccarin"},
		Synopsis:    "Wade Wilson teams up with Wolverine for an adventure that will shake the Marvel Cinematic Universe to its core.",
		Status:      model.MovieComingSoon,
	},
	{
		ID:          7,
		Title:       "Gladiator II",
		Poster:      "https://images.unsplash.com/photo-1491566102020-21838225c3c8?auto=format&fit=crop&q=80&w=1930&ixlib=rb-4.0.3",
		Backdrop:    "https://images.unsplash.com/photo-1542566331-1057aa8e686e?auto=format&fit=crop&q=80&w=2077&ixlib=rb-4.0.3",
		ReleaseDate: "2024-11-22",
		Genres:      []string{"Action", "Adventure", "Drama"},
		Director:    "Ridley Scott",
		Cast:        []string{"Paul Mescal", "Denzel Washington", "Pedro Pascal", "Connie Nielsen"},
		Synopsis:    "The sequel to the Academy Award-winning 'Gladiator' follows a new hero's rise in ancient Rome.",
		Status:      model.MovieComingSoon,
	},
	{
		ID:          8,
		Title:       "Furiosa: A Mad Max Saga",
		Poster:      "https://images.unsplash.com/photo-1598548446144-845f3c2100dd?auto=format&fit=crop&q=80&w=2080&ixlib=rb-4.0.3",
		Backdrop:    "https://images.unsplash.com/photo-1518780664697-55e3ad937233?auto=format&fit=crop&q=80&w=2065&ixlib=rb-4.0.3",
		ReleaseDate: "2024-05-24",
		Genres:      []string{"Action", "Adventure", "Sci-Fi"},
		Director:    "George Miller",
		Cast:        []string{"Anya Taylor-Joy", "Chris Hemsworth", "Tom Burke"},
		Synopsis:    "The origin story of the powerful warrior Furiosa before she teamed up with Mad Max.",
		Status:      model.MovieComingSoon,
	},
}

var theaters = []model.Theater{
	{ID: 1, Name: "Cineplex Grand", Location: "Downtown", Address: "123 Main Street, Downtown"},
	{ID: 2, Name: "MovieMax IMAX", Location: "Midtown", Address: "456 Oak Avenue, Midtown"},
	{ID: 3, Name: "Starplex Cinema", Location: "Westside Mall", Address: "789 Pine Road, Westside Mall"},
	{ID: 4, Name: "Royal Theatres", Location: "Uptown", Address: "101 Maple Boulevard, Uptown"},
}

const screeningDay = "2024-04-16"

var showtimes = []model.Showtime{
	// Dune: Part Two
	{ID: 1, MovieID: 1, TheaterID: 1, Date: screeningDay, Time: "10:30", Price: price("12.99"), Format: model.FormatStandard},
	{ID: 2, MovieID: 1, TheaterID: 1, Date: screeningDay, Time: "13:45", Price: price("12.99"), Format: model.FormatStandard},
	{ID: 3, MovieID: 1, TheaterID: 1, Date: screeningDay, Time: "17:15", Price: price("14.99"), Format: model.FormatStandard},
	{ID: 4, MovieID: 1, TheaterID: 1, Date: screeningDay, Time: "20:30", Price: price("14.99"), Format: model.FormatStandard},
	{ID: 5, MovieID: 1, TheaterID: 2, Date: screeningDay, Time: "11:00", Price: price("18.99"), Format: model.FormatIMAX},
	{ID: 6, MovieID: 1, TheaterID: 2, Date: screeningDay, Time: "14:30", Price: price("18.99"), Format: model.FormatIMAX},
	{ID: 7, MovieID: 1, TheaterID: 2, Date: screeningDay, Time: "18:00", Price: price("20.99"), Format: model.FormatIMAX},
	{ID: 8, MovieID: 1, TheaterID: 2, Date: screeningDay, Time: "21:30", Price: price("20.99"), Format: model.FormatIMAX},
	// The Batman
	{ID: 9, MovieID: 2, TheaterID: 1, Date: screeningDay, Time: "11:15", Price: price("12.99"), Format: model.FormatStandard},
	{ID: 10, MovieID: 2, TheaterID: 1, Date: screeningDay, Time: "14:30", Price: price("12.99"), Format: model.FormatStandard},
	{ID: 11, MovieID: 2, TheaterID: 1, Date: screeningDay, Time: "18:00", Price: price("14.99"), Format: model.FormatStandard},
	{ID: 12, MovieID: 2, TheaterID: 3, Date: screeningDay, Time: "10:45", Price: price("12.99"), Format: model.FormatStandard},
	{ID: 13, MovieID: 2, TheaterID: 3, Date: screeningDay, Time: "13:30", Price: price("12.99"), Format: model.FormatStandard},
	{ID: 14, MovieID: 2, TheaterID: 3, Date: screeningDay, Time: "16:45", Price: price("14.99"), Format: model.FormatStandard},
	{ID: 15, MovieID: 2, TheaterID: 3, Date: screeningDay, Time: "20:15", Price: price("14.99"), Format: model.FormatStandard},
	// Everything Everywhere All at Once
	{ID: 16, MovieID: 3, TheaterID: 1, Date: screeningDay, Time: "12:00", Price: price("12.99"), Format: model.FormatStandard},
	{ID: 17, MovieID: 3, TheaterID: 1, Date: screeningDay, Time: "15:15", Price: price("12.99"), Format: model.FormatStandard},
	{ID: 18, MovieID: 3, TheaterID: 1, Date: screeningDay, Time: "19:30", Price: price("14.99"), Format: model.FormatStandard},
	// Oppenheimer
	{ID: 19, MovieID: 4, TheaterID: 2, Date: screeningDay, Time: "10:00", Price: price("18.99"), Format: model.FormatIMAX},
	{ID: 20, MovieID: 4, TheaterID: 2, Date: screeningDay, Time: "14:00", Price: price("18.99"), Format: model.FormatIMAX},
	{ID: 21, MovieID: 4, TheaterID: 2, Date: screeningDay, Time: "19:00", Price: price("20.99"), Format: model.FormatIMAX},
	// Barbie
	{ID: 22, MovieID: 5, TheaterID: 3, Date: screeningDay, Time: "11:30", Price: price("12.99"), Format: model.FormatStandard},
	{ID: 23, MovieID: 5, TheaterID: 3, Date: screeningDay, Time: "14:45", Price: price("12.99"), Format: model.FormatStandard},
	{ID: 24, MovieID: 5, TheaterID: 3, Date: screeningDay, Time: "17:30", Price: price("14.99"), Format: model.FormatStandard},
	{ID: 25, MovieID: 5, TheaterID: 4, Date: screeningDay, Time: "12:15", Price: price("12.99"), Format: model.FormatStandard},
	{ID: 26, MovieID: 5, TheaterID: 4, Date: screeningDay, Time: "15:30", Price: price("12.99"), Format: model.FormatStandard},
	{ID: 27, MovieID: 5, TheaterID: 4, Date: screeningDay, Time: "18:45", Price: price("14.99"), Format: model.FormatStandard},
}
