package sqlinline

const bookingColumns = `b.id::text, b.product_id, p.name, b.user_id::text, b.first_name, b.last_name, b.quantity, b.unit_price, b.total_price, b.contact_number, b.delivery_address, b.notes, b.status, b.created_at`

const QInsertBooking = `--sql b3b579e9-95e5-41aa-828e-f662cb6e0cd6
insert into bookings (id, product_id, user_id, first_name, last_name, quantity, unit_price, total_price, contact_number, delivery_address, notes, status, created_at)
values ($1::uuid, $2, $3::uuid, $4, $5, $6, $7, $8, $9, $10, $11, $12, now())
returning created_at;
`

const QListBookingsByUser = `--sql 50b5b4b8-d8b8-4f3b-8281-08f98985b18c
select ` + bookingColumns + `
from bookings b
join products p on p.id = b.product_id
where b.user_id = $1::uuid
order by b.created_at desc;
`

const QListBookingsByStatus = `--sql 5f11a824-e498-4845-84d8-15510b9c18e2
select ` + bookingColumns + `
from bookings b
join products p on p.id = b.product_id
where b.status = $1
order by b.created_at desc;
`
