package catalog

import "dcpstore/internal/domain"

// defaultProducts is the demo store inventory. Prices are in rubles.
var defaultProducts = []domain.Product{
	{ID: 1, Name: "Смартфон Pro X", Category: "Smartphones", Price: 69900, Image: "images/product-1.jpg"},
	{ID: 2, Name: "Беспроводные Наушники", Category: "Audio", Price: 12900, Image: "images/product-2.jpg"},
	{ID: 3, Name: "Умные Часы", Category: "Wearables", Price: 29900, Image: "images/product-3.jpg"},
	{ID: 4, Name: "Ноутбук Ultra", Category: "Computers", Price: 129900, Image: "images/product-4.jpg"},
	{ID: 5, Name: "Планшет Pro", Category: "Tablets", Price: 49900, Image: "images/product-5.jpg"},
	{ID: 6, Name: "Игровая Консоль", Category: "Gaming", Price: 39900, Image: "images/product-6.jpg"},
	{ID: 7, Name: "Умный Телевизор 55\"", Category: "TVs", Price: 79900, Image: "images/product-7.jpg"},
	{ID: 8, Name: "Камера DSLR", Category: "Cameras", Price: 89900, Image: "images/product-8.jpg"},
	{ID: 9, Name: "Смартфон Galaxy S", Category: "Smartphones", Price: 79900, Image: "images/product-9.jpg"},
	{ID: 10, Name: "Наушники Over-Ear Pro", Category: "Audio", Price: 15900, Image: "images/product-10.jpg"},
	{ID: 11, Name: "Фитнес-браслет", Category: "Wearables", Price: 12900, Image: "images/product-11.jpg"},
	{ID: 12, Name: "Игровой ПК", Category: "Computers", Price: 149900, Image: "images/product-12.jpg"},
	{ID: 13, Name: "Планшет Mini", Category: "Tablets", Price: 29900, Image: "images/product-13.jpg"},
	{ID: 14, Name: "Игровая Приставка Pro", Category: "Gaming", Price: 49900, Image: "images/product-14.jpg"},
	{ID: 15, Name: "Телевизор 65\" 4K", Category: "TVs", Price: 99900, Image: "images/product-15.jpg"},
	{ID: 16, Name: "Экшн-камера", Category: "Cameras", Price: 24900, Image: "images/product-16.jpg"},
}
